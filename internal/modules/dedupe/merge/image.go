package merge

import (
	"context"
	"sort"

	"github.com/yungbote/medialib-admin/internal/domain"
)

type ImageCarryStatus string

const (
	ImageCarried ImageCarryStatus = "carried"
	ImageSkipped ImageCarryStatus = "skipped"
	ImageFailed  ImageCarryStatus = "failed"
)

// ImageCarryResult is the outcome of moving the losing entity's image onto
// the survivor. A failed carry never fails the merge.
type ImageCarryResult struct {
	Status ImageCarryStatus `json:"status"`
	From   string           `json:"from,omitempty"`
	To     string           `json:"to,omitempty"`
	Reason string           `json:"reason,omitempty"`
	Err    error            `json:"-"`
}

func (r ImageCarryResult) Failed() bool { return r.Status == ImageFailed }

func skipped(reason string) ImageCarryResult {
	return ImageCarryResult{Status: ImageSkipped, Reason: reason}
}

// findImage returns the stored key of ref's image, or "" when it has none.
// The canonical key is checked first; otherwise the category prefix is
// listed so images saved with another extension are found too.
func (e *Executor) findImage(ctx context.Context, ref domain.EntityRef) (string, error) {
	key := e.layout.Key(ref)
	ok, err := e.images.KeyExists(ctx, key)
	if err != nil {
		return "", err
	}
	if ok {
		return key, nil
	}
	keys, err := e.images.ListKeys(ctx, e.layout.CategoryPrefix(ref.Category))
	if err != nil {
		return "", err
	}
	sort.Strings(keys)
	for _, k := range keys {
		if id, ok := e.layout.IDInCategory(ref.Category, k); ok && id == ref.ID {
			return k, nil
		}
	}
	return "", nil
}

// carryImage copies del's image to keep and removes the original when del
// has an image and keep does not. The copy keeps the source extension.
func (e *Executor) carryImage(ctx context.Context, keep, del domain.EntityRef) ImageCarryResult {
	if e.images == nil {
		return skipped("no image store")
	}
	var from, to string
	fail := func(err error) ImageCarryResult {
		werr := domain.ImageCarry("carry image", del, err)
		e.log.Warn("image carry-over failed", "from", from, "to", to, "error", werr)
		return ImageCarryResult{Status: ImageFailed, From: from, To: to, Reason: err.Error(), Err: werr}
	}

	from, err := e.findImage(ctx, del)
	if err != nil {
		return fail(err)
	}
	if from == "" {
		return skipped("source has no image")
	}
	existing, err := e.findImage(ctx, keep)
	if err != nil {
		return fail(err)
	}
	if existing != "" {
		return skipped("survivor already has an image")
	}
	to = e.layout.KeyWithExt(keep, domain.ExtOf(from))
	if err := e.images.CopyObject(ctx, from, to); err != nil {
		return fail(err)
	}
	if err := e.images.DeleteFile(ctx, from); err != nil {
		return fail(err)
	}
	return ImageCarryResult{Status: ImageCarried, From: from, To: to}
}
