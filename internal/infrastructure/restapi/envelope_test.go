package restapi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
)

var articleKeys = Keys{Singular: "article", Plural: "articles"}

func TestDecodeList_EquivalentEnvelopes(t *testing.T) {
	items := `[{"id":"a1","title":"Gorillas"},{"id":"a2","title":"Volcanoes"}]`
	bodies := map[Shape]string{
		ShapeBareArray:  items,
		ShapeDataArray:  `{"data":` + items + `}`,
		ShapeDataPlural: `{"data":{"articles":` + items + `}}`,
		ShapePlural:     `{"articles":` + items + `}`,
	}

	var want []domain.Article
	for shape, body := range bodies {
		list, err := DecodeList[domain.Article]([]byte(body), articleKeys)
		require.NoError(t, err, shape.String())
		assert.Equal(t, shape, list.Shape)
		require.Len(t, list.Items, 2, shape.String())
		if want == nil {
			want = list.Items
			continue
		}
		assert.Equal(t, want, list.Items, shape.String())
	}
	assert.Equal(t, "a1", want[0].ID)
	assert.Equal(t, "Volcanoes", want[1].Title)
}

func TestDecodeList_DataPluralCapturesPagination(t *testing.T) {
	body := `{"data":{"articles":[{"id":"a1"},{"id":"a2"}],
		"pagination":{"currentPage":2,"totalPages":5,"totalArticles":42,"hasNext":true,"hasPrev":true}}}`

	list, err := DecodeList[domain.Article]([]byte(body), articleKeys)
	require.NoError(t, err)
	assert.Equal(t, ShapeDataPlural, list.Shape)
	assert.Len(t, list.Items, 2)
	require.NotNil(t, list.Pagination)
	assert.Equal(t, domain.Pagination{Page: 2, Total: 42, TotalPages: 5, HasNext: true, HasPrev: true}, *list.Pagination)
}

func TestDecodeList_InlinePagination(t *testing.T) {
	body := `{"invitations":[{"id":"i1","email":"a@kmt.org"}],"total":11,"page":1,"limit":10,"totalPages":2}`

	list, err := DecodeList[domain.Invitation]([]byte(body), Keys{Singular: "invitation", Plural: "invitations"})
	require.NoError(t, err)
	assert.Equal(t, ShapePlural, list.Shape)
	require.NotNil(t, list.Pagination)
	assert.Equal(t, 11, list.Pagination.Total)
	assert.Equal(t, 10, list.Pagination.Limit)
	assert.True(t, list.Pagination.HasNext)
	assert.False(t, list.Pagination.HasPrev)
}

func TestDecodeList_NoPaginationWhenAbsent(t *testing.T) {
	list, err := DecodeList[domain.Article]([]byte(`{"articles":[{"id":"a1"}]}`), articleKeys)
	require.NoError(t, err)
	assert.Nil(t, list.Pagination)
}

func TestDecodeList_DataObjectIsSingleItem(t *testing.T) {
	list, err := DecodeList[domain.Article]([]byte(`{"data":{"id":"a9","title":"Solo"}}`), articleKeys)
	require.NoError(t, err)
	assert.Equal(t, ShapeDataObject, list.Shape)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "a9", list.Items[0].ID)
}

func TestDecodeList_NestedData(t *testing.T) {
	list, err := DecodeList[domain.Article]([]byte(`{"success":true,"data":{"data":{"articles":[{"id":"a1"}]}}}`), articleKeys)
	require.NoError(t, err)
	assert.Equal(t, ShapeDataPlural, list.Shape)
	assert.Len(t, list.Items, 1)
}

func TestDecodeList_Unrecognized(t *testing.T) {
	list, err := DecodeList[domain.Article]([]byte(`{"posts":[{"id":"a1"}],"ok":true}`), articleKeys)
	require.NoError(t, err)
	assert.Equal(t, ShapeUnrecognized, list.Shape)
	assert.Empty(t, list.Items)
	assert.Equal(t, []string{"ok", "posts"}, list.TopKeys)

	list, err = DecodeList[domain.Article]([]byte(`"hello"`), articleKeys)
	require.NoError(t, err)
	assert.Equal(t, ShapeUnrecognized, list.Shape)
}

func TestDecodeList_InvalidJSON(t *testing.T) {
	_, err := DecodeList[domain.Article]([]byte(`{"articles":[`), articleKeys)
	assert.True(t, errors.Is(err, domain.ErrParseFailure), "got %v", err)

	_, err = DecodeList[domain.Article]([]byte("  "), articleKeys)
	assert.True(t, errors.Is(err, domain.ErrParseFailure), "got %v", err)
}

func TestDecodeList_DropsMissingAndDuplicateIDs(t *testing.T) {
	body := `[{"id":"a1","title":"first"},{"title":"no id"},{"id":"a1","title":"again"},{"id":"a2"}]`

	list, err := DecodeList[domain.Article]([]byte(body), articleKeys)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "first", list.Items[0].Title)
	assert.Equal(t, "a2", list.Items[1].ID)
	assert.Equal(t, 2, list.Dropped)
}

func TestDecodeItem_Shapes(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		shape Shape
	}{
		{"bare", `{"id":"c1","name":"Wildlife"}`, ShapeBareObject},
		{"singular", `{"category":{"id":"c1","name":"Wildlife"}}`, ShapeSingular},
		{"data singular", `{"success":true,"data":{"category":{"id":"c1","name":"Wildlife"}}}`, ShapeDataSingular},
		{"data object", `{"data":{"id":"c1","name":"Wildlife"}}`, ShapeDataObject},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cat, shape, err := DecodeItem[domain.Category]([]byte(tc.body), Keys{Singular: "category", Plural: "categories"})
			require.NoError(t, err)
			assert.Equal(t, tc.shape, shape)
			assert.Equal(t, "c1", cat.ID)
			assert.Equal(t, "Wildlife", cat.Name)
		})
	}
}

func TestDecodeItem_EmptyData(t *testing.T) {
	_, _, err := DecodeItem[domain.Category]([]byte(`{"data":{}}`), Keys{Singular: "category"})
	assert.True(t, errors.Is(err, domain.ErrParseFailure))
	assert.True(t, errors.Is(err, domain.ErrEmptyData))
	assert.Contains(t, err.Error(), "category data is empty")
}

func TestDecodeItem_Unrecognized(t *testing.T) {
	_, shape, err := DecodeItem[domain.Category]([]byte(`{"message":"ok"}`), Keys{Singular: "category"})
	assert.Equal(t, ShapeUnrecognized, shape)
	assert.True(t, errors.Is(err, domain.ErrParseFailure))
	assert.True(t, errors.Is(err, domain.ErrUnrecognizedShape))

	_, _, err = DecodeItem[domain.Category]([]byte(`[{"id":"c1"}]`), Keys{Singular: "category"})
	assert.True(t, errors.Is(err, domain.ErrUnrecognizedShape))
}

func TestDecodeValue(t *testing.T) {
	stats, err := DecodeValue[domain.ContactStats]([]byte(`{"data":{"stats":{"total":5,"unread":2,"inProgress":1}}}`), "stats")
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.InProgress)

	stats, err = DecodeValue[domain.ContactStats]([]byte(`{"stats":{"total":3}}`), "stats")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)

	_, err = DecodeValue[domain.Dashboard]([]byte(`{"success":false,"data":{"dashboard":{}}}`), "dashboard")
	assert.True(t, errors.Is(err, domain.ErrParseFailure))

	_, err = DecodeValue[domain.Dashboard]([]byte(`{"data":{}}`), "dashboard")
	assert.True(t, errors.Is(err, domain.ErrUnrecognizedShape))
}
