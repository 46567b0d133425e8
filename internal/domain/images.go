package domain

import (
	"path"
	"strconv"
	"strings"
)

// ImageLayout maps entities to object keys: <prefix><category>/<id><ext>.
type ImageLayout struct {
	Prefix string
	Ext    string
}

func DefaultImageLayout() ImageLayout {
	return ImageLayout{Prefix: "entities/", Ext: ".jpg"}
}

func (l ImageLayout) normalized() ImageLayout {
	if l.Prefix != "" && !strings.HasSuffix(l.Prefix, "/") {
		l.Prefix += "/"
	}
	if l.Ext == "" {
		l.Ext = ".jpg"
	}
	if !strings.HasPrefix(l.Ext, ".") {
		l.Ext = "." + l.Ext
	}
	return l
}

// CategoryPrefix is the listing prefix covering every image of a category.
func (l ImageLayout) CategoryPrefix(c Category) string {
	l = l.normalized()
	return l.Prefix + string(c) + "/"
}

// Key is the canonical key for ref, using the configured extension.
func (l ImageLayout) Key(ref EntityRef) string {
	l = l.normalized()
	return l.KeyWithExt(ref, l.Ext)
}

// KeyWithExt is Key with an explicit extension, such as one taken from an
// existing object.
func (l ImageLayout) KeyWithExt(ref EntityRef, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return l.CategoryPrefix(ref.Category) + strconv.FormatUint(uint64(ref.ID), 10) + ext
}

// ExtOf returns everything from the first dot of key's file name, or "".
func ExtOf(key string) string {
	base := path.Base(strings.TrimSpace(key))
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[i:]
	}
	return ""
}

// IDInCategory parses key as an image of category c. Keys outside the
// category prefix or in nested folders do not match.
func (l ImageLayout) IDInCategory(c Category, key string) (uint, bool) {
	key = strings.TrimSpace(key)
	prefix := l.CategoryPrefix(c)
	if !strings.HasPrefix(key, prefix) || strings.Contains(key[len(prefix):], "/") {
		return 0, false
	}
	return l.ParseID(key)
}

// ParseID extracts the numeric entity id from a key's file name, whatever the
// extension. ok is false for keys that do not name an entity image.
func (l ImageLayout) ParseID(key string) (uint, bool) {
	base := path.Base(strings.TrimSpace(key))
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	id, err := strconv.ParseUint(base, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
