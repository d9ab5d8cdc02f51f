package assets_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/nursery/internal/assets"
	"github.com/dukerupert/nursery/internal/domain"
	"github.com/dukerupert/nursery/internal/storage"
)

func newStore(t *testing.T) (*storage.LocalStorage, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "public", "images")
	store, err := storage.NewLocalStorage(root, "/images")
	require.NoError(t, err)
	return store, root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func Test_CardPublisher_Add(t *testing.T) {
	store, root := newStore(t)
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "maple_card.png"), "png")
	writeFile(t, filepath.Join(src, "maple_card.html"), "<div></div>")
	writeFile(t, filepath.Join(src, "maple_rounded.png"), "png")

	c := &domain.Catalog{Products: []domain.ProductRecord{
		{ID: 1, Name: "Japanese Maple", Images: []string{"/images/plants/maple-1.jpg"}, Extended: domain.Extended{SKU: "TRE-ACE-25GAL-001"}},
	}}

	p := assets.NewCardPublisher(store, zerolog.Nop())
	res, err := p.Add(context.Background(), c, "TRE-ACE-25GAL-001", map[string]string{
		domain.CardImage:         filepath.Join(src, "maple_card.png"),
		domain.CardHTML:          filepath.Join(src, "maple_card.html"),
		domain.CardSpinAnimation: filepath.Join(src, "missing.gif"),
		domain.CardRounded:       filepath.Join(src, "maple_rounded.png"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.ProductID)
	assert.Equal(t, []string{domain.CardSpinAnimation}, res.Skipped)
	assert.Equal(t, map[string]string{
		domain.CardImage:   "/images/product-cards/maple_card.png",
		domain.CardHTML:    "/images/product-cards/maple_card.html",
		domain.CardRounded: "/images/product-cards/maple_rounded.png",
	}, c.Products[0].ProductCard)
	assert.Equal(t, []string{
		"/images/plants/maple-1.jpg",
		"/images/product-cards/maple_card.png",
		"/images/product-cards/maple_rounded.png",
	}, c.Products[0].Images)
	assert.FileExists(t, filepath.Join(root, "product-cards", "maple_card.html"))

	// A new card replaces the old one. The card image is reused and the files
	// the new card drops are deleted.
	res, err = p.Add(context.Background(), c, "TRE-ACE-25GAL-001", map[string]string{
		domain.CardImage: filepath.Join(src, "maple_card.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{domain.CardImage: "/images/product-cards/maple_card.png"}, c.Products[0].ProductCard)
	assert.Equal(t, []string{
		"/images/plants/maple-1.jpg",
		"/images/product-cards/maple_card.png",
	}, c.Products[0].Images)
	assert.Equal(t, []string{
		"/images/product-cards/maple_card.html",
		"/images/product-cards/maple_rounded.png",
	}, res.Removed)
	assert.FileExists(t, filepath.Join(root, "product-cards", "maple_card.png"))
	assert.NoFileExists(t, filepath.Join(root, "product-cards", "maple_card.html"))
	assert.NoFileExists(t, filepath.Join(root, "product-cards", "maple_rounded.png"))
}

func Test_CardPublisher_Add_KeepsSharedFiles(t *testing.T) {
	store, root := newStore(t)
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "shared.png"), "png")
	writeFile(t, filepath.Join(src, "oak.png"), "png")

	c := &domain.Catalog{Products: []domain.ProductRecord{
		{ID: 1, Extended: domain.Extended{SKU: "TRE-QUE-15GAL-001"}},
		{ID: 2, Extended: domain.Extended{SKU: "TRE-QUE-15GAL-002"}},
	}}
	p := assets.NewCardPublisher(store, zerolog.Nop())

	for _, sku := range []string{"TRE-QUE-15GAL-001", "TRE-QUE-15GAL-002"} {
		_, err := p.Add(context.Background(), c, sku, map[string]string{domain.CardImage: filepath.Join(src, "shared.png")})
		require.NoError(t, err)
	}

	res, err := p.Add(context.Background(), c, "TRE-QUE-15GAL-001", map[string]string{domain.CardImage: filepath.Join(src, "oak.png")})
	require.NoError(t, err)
	assert.Empty(t, res.Removed)
	assert.FileExists(t, filepath.Join(root, "product-cards", "shared.png"))
	assert.Equal(t, []string{"/images/product-cards/oak.png"}, c.Products[0].Images)
	assert.Equal(t, []string{"/images/product-cards/shared.png"}, c.Products[1].Images)
}

func Test_CardPublisher_Add_Errors(t *testing.T) {
	store, _ := newStore(t)
	c := &domain.Catalog{Products: []domain.ProductRecord{{ID: 1, Extended: domain.Extended{SKU: "A-B-001"}}}}
	p := assets.NewCardPublisher(store, zerolog.Nop())

	_, err := p.Add(context.Background(), c, "NOPE", map[string]string{domain.CardImage: "x.png"})
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
	assert.Equal(t, 1, domain.ExitCode(err))

	_, err = p.Add(context.Background(), c, "A-B-001", map[string]string{domain.CardImage: "/does/not/exist.png"})
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
	assert.Nil(t, c.Products[0].ProductCard)

	_, err = p.Add(context.Background(), c, "", nil)
	assert.True(t, domain.IsCode(err, domain.EINVALID))
}

func Test_ListCards(t *testing.T) {
	c := &domain.Catalog{Products: []domain.ProductRecord{
		{ID: 1, Name: "Plain"},
		{ID: 2, Name: "Maple", ProductCard: map[string]string{"rounded_card": "/r.png", "card_image": "/c.png"}},
	}}

	cards := assets.ListCards(c)
	require.Len(t, cards, 1)
	assert.Equal(t, assets.CardEntry{ID: 2, Name: "Maple", SKU: "N/A", Kinds: []string{"card_image", "rounded_card"}}, cards[0])
}

func Test_Slugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Blue Spruce", "blue-spruce"},
		{"  Bird of--Paradise!", "bird-of-paradise"},
		{"IMG", "img"},
		{"___", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, assets.Slugify(tt.in), tt.in)
	}
}

func Test_Standardize(t *testing.T) {
	store, root := newStore(t)
	a := t.TempDir()
	b := t.TempDir()
	writeFile(t, filepath.Join(a, "Boxwood_01.JPG"), "1")
	writeFile(t, filepath.Join(a, "Boxwood-2.jpg"), "2")
	writeFile(t, filepath.Join(a, "notes.txt"), "skip")
	writeFile(t, filepath.Join(b, "Day Lily.png"), "3")
	writeFile(t, filepath.Join(b, "boxwood.jpeg"), "4")
	require.NoError(t, os.Mkdir(filepath.Join(b, "nested.jpg"), 0755))

	out, err := assets.Standardize(context.Background(), store, zerolog.Nop(), a, b)
	require.NoError(t, err)

	keys := make([]string, 0, len(out))
	for _, r := range out {
		keys = append(keys, r.Key)
	}
	assert.Equal(t, []string{
		"plants/boxwood-1.jpg",
		"plants/boxwood-2.jpg",
		"plants/day-lily-1.png",
		"plants/boxwood-3.jpeg",
	}, keys)
	assert.Equal(t, "/images/plants/day-lily-1.png", out[2].URL)
	assert.FileExists(t, filepath.Join(root, "plants", "boxwood-3.jpeg"))
}

func Test_Standardize_MissingSource(t *testing.T) {
	store, _ := newStore(t)
	_, err := assets.Standardize(context.Background(), store, zerolog.Nop(), filepath.Join(t.TempDir(), "nope"))
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
}

func Test_FolderFor(t *testing.T) {
	assert.Equal(t, "generic", assets.FolderFor("Nursery Generic"))
	assert.Equal(t, "bearded-iris", assets.FolderFor("Bearded Iris"))
	assert.Equal(t, "boxwood", assets.FolderFor("Boxwood jpg"))
}

func Test_Organize(t *testing.T) {
	public := filepath.Join(t.TempDir(), "public")
	store, err := storage.NewLocalStorage(filepath.Join(public, "images"), "/images")
	require.NoError(t, err)
	writeFile(t, filepath.Join(public, "images", "plants", "boxwood-1.jpg"), "box")
	writeFile(t, filepath.Join(public, "images", "plants", "nursery-1.jpeg"), "generic")

	c := &domain.Catalog{Products: []domain.ProductRecord{
		{ID: 1, Name: "Boxwood", Images: []string{"/images/plants/boxwood-1.jpg"}, ImageCategory: "Boxwood"},
		{ID: 2, Name: "Bush", Images: []string{"/images/plants/nursery-1.jpeg"}, ImageCategory: "Nursery Generic"},
		{ID: 3, Name: "Ficus", Images: []string{"/images/plants/nursery-1.jpeg"}, ImageCategory: "Nursery Generic"},
		{ID: 4, Name: "Ghost", Images: []string{"/images/plants/ghost-1.jpg"}, ImageCategory: "Ghost"},
		{ID: 5, Name: "Uncategorized", Images: []string{"/images/plants/x.jpg"}},
	}}

	o := assets.NewOrganizer(store, public, zerolog.Nop())
	res, err := o.Organize(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"boxwood": 1, "generic": 1}, res.Folders)
	assert.Equal(t, []string{"/images/plants/ghost-1.jpg"}, res.Missing)
	assert.FileExists(t, filepath.Join(public, "images", "plants", "generic", "nursery-1.jpeg"))

	m := res.Metadata
	assert.Equal(t, assets.ImageStatistics{TotalProducts: 4, UniqueImages: 3, Categories: 3}, m.Statistics)
	assert.Equal(t, 2, m.ImageCategories["Nursery Generic"].Count)
	assert.Equal(t, assets.ProductImage{Name: "Ficus", Image: "/images/plants/nursery-1.jpeg", Category: "Nursery Generic"}, m.ProductImageMapping["3"])

	out := filepath.Join(t.TempDir(), "image_metadata.json")
	require.NoError(t, assets.WriteMetadata(out, m))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "product_image_mapping")

	// A second run finds everything already filed.
	res, err = o.Organize(context.Background(), c)
	require.NoError(t, err)
	assert.Empty(t, res.Copied)
	assert.ElementsMatch(t, []string{"/images/plants/boxwood/boxwood-1.jpg", "/images/plants/generic/nursery-1.jpeg"}, res.Filed)
	assert.Equal(t, map[string]int{"boxwood": 1, "generic": 1}, res.Folders)
}
