package imageasset

import (
	"fmt"
	"path"
)

// StorageKeyFor returns the deterministic blob key for an image.
//
// Profile and banner images occupy a fixed slot per owner: a later upload of
// the same kind lands on the same key and overwrites the bytes. Product
// images keep the original filename, so distinct filenames get distinct keys.
func StorageKeyFor(kind ImageKind, ownerID, fileName string) string {
	switch kind {
	case KindUserProfile:
		return fmt.Sprintf("users/%s/profile%s", ownerID, extensionOf(fileName))
	case KindUserBanner:
		return fmt.Sprintf("users/%s/banner%s", ownerID, extensionOf(fileName))
	case KindProduct:
		return fmt.Sprintf("products/%s/%s", ownerID, fileName)
	}
	return ""
}

// OwnerUserPrefix is the blob prefix holding an owner's profile and banner.
func OwnerUserPrefix(ownerID string) string {
	return fmt.Sprintf("users/%s/", ownerID)
}

// OwnerProductPrefix is the blob prefix holding an owner's product images.
func OwnerProductPrefix(ownerID string) string {
	return fmt.Sprintf("products/%s/", ownerID)
}

func extensionOf(fileName string) string {
	if ext := path.Ext(fileName); ext != "" {
		return ext
	}
	return ".jpg"
}
