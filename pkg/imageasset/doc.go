// Package imageasset manages image assets on behalf of an external
// application: profile pictures, banners, and product photos. Binary content
// lives in a blob store (S3, MinIO, filesystem, or memory) and metadata lives
// in a relational repository (Postgres or memory); the Service keeps the two
// coherent across upload, lookup, and delete.
//
// There is no distributed transaction between the stores. Uploads write the
// blob first and persist metadata second, so a failed metadata write can
// leave an orphaned blob. Deletes tombstone the metadata first and remove the
// blob second, so a failed blob removal leaves invisible bytes behind. Both
// inconsistencies are accepted; neither is retried.
//
// Basic usage:
//
//	svc, err := imageasset.New(
//		imageasset.WithRepository(repo),
//		imageasset.WithBlobStore(store),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := svc.UploadImage(ctx, imageasset.UploadImageRequest{
//		Reader:      file,
//		FileName:    "p.jpg",
//		ContentType: "image/jpeg",
//		SizeBytes:   size,
//		Kind:        imageasset.KindUserProfile,
//		OwnerID:     "u1",
//	})
package imageasset
