package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizit-app/quizit-tools/internal/log"
	"github.com/quizit-app/quizit-tools/internal/supabase"
)

type fakeQuizSource struct {
	cards []supabase.Card
	err   error
}

func (f *fakeQuizSource) CardsByQuizTitle(_ context.Context, _ string) ([]supabase.Card, error) {
	return f.cards, f.err
}

type generated struct {
	Description string
	Subject     string
}

type fakeImageGen struct {
	calls []generated
	data  []byte
	mime  string
	err   error
}

func (f *fakeImageGen) Generate(_ context.Context, description, subject string) ([]byte, string, error) {
	f.calls = append(f.calls, generated{description, subject})
	if f.err != nil {
		return nil, "", f.err
	}
	return f.data, f.mime, nil
}

func TestQuizImages_GenerateAndUpload(t *testing.T) {
	t.Parallel()

	gen := &fakeImageGen{data: []byte("jpegbytes"), mime: "image/jpeg"}
	store := &fakeStore{}
	c := newTestCache(t, "quiz_images_cache")

	p := &QuizImages{
		Cards:    &fakeQuizSource{cards: []supabase.Card{{ID: "c1", Front: "电路图 ![串联电路示意图]"}}},
		Generate: gen,
		Store:    store,
		Cache:    c,
		Bucket:   "quizit_card_medias",
		Subject:  "P",
		Logger:   log.NewNop(),
	}

	report, err := p.Run(context.Background(), "物理小考")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Uploaded)

	require.Len(t, gen.calls, 1)
	assert.Equal(t, "串联电路示意图", gen.calls[0].Description)
	assert.Equal(t, "P", gen.calls[0].Subject)

	require.Len(t, store.uploads, 1)
	assert.Equal(t, "c1/front1.jpg", store.uploads[0].Path)
	assert.Equal(t, "image/jpeg", store.uploads[0].ContentType)

	// The generated image is cached for later dry runs.
	img, ok, err := c.Get("c1-front1.jpg")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "jpegbytes", string(img))
}

func TestQuizImages_DryRunUploadsOnlyCached(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, "quiz_images_cache")
	require.NoError(t, c.Put("c1-front1.jpg", []byte("cached")))

	store := &fakeStore{}
	p := &QuizImages{
		Cards: &fakeQuizSource{cards: []supabase.Card{
			{ID: "c1", Front: "![甲]"},
			{ID: "c2", Front: "![乙]"},
		}},
		Store:  store,
		Cache:  c,
		Bucket: "b",
		Logger: log.NewNop(),
	}

	report, err := p.Run(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Uploaded)
	assert.Equal(t, 1, report.Skipped)

	require.Len(t, store.uploads, 1)
	assert.Equal(t, "c1/front1.jpg", store.uploads[0].Path)
	assert.Equal(t, "cached", string(store.uploads[0].Content))
}

func TestQuizImages_EnvelopeFrontAndFallbackDescription(t *testing.T) {
	t.Parallel()

	gen := &fakeImageGen{data: []byte("img"), mime: "image/jpeg"}
	p := &QuizImages{
		// Bare `![]` placeholder: the description falls back to the prompt text.
		Cards:    &fakeQuizSource{cards: []supabase.Card{{ID: "c1", Front: `{"prompt": "题干描述 ![]"}`}}},
		Generate: gen,
		Store:    &fakeStore{},
		Cache:    newTestCache(t, "quiz_images_cache"),
		Bucket:   "b",
		Subject:  "B",
		Logger:   log.NewNop(),
	}

	report, err := p.Run(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Uploaded)

	require.Len(t, gen.calls, 1)
	assert.Equal(t, "题干描述 ![]", gen.calls[0].Description)
}

func TestQuizImages_NoPlaceholdersNoWork(t *testing.T) {
	t.Parallel()

	gen := &fakeImageGen{data: []byte("img"), mime: "image/jpeg"}
	store := &fakeStore{}
	p := &QuizImages{
		Cards:    &fakeQuizSource{cards: []supabase.Card{{ID: "c1", Front: "纯文字题目"}}},
		Generate: gen,
		Store:    store,
		Cache:    newTestCache(t, "quiz_images_cache"),
		Bucket:   "b",
		Logger:   log.NewNop(),
	}

	report, err := p.Run(context.Background(), "t")
	require.NoError(t, err)
	assert.Zero(t, report.Uploaded)
	assert.Empty(t, gen.calls)
	assert.Empty(t, store.uploads)
}

func TestQuizImages_EmptyTemplateIsError(t *testing.T) {
	t.Parallel()

	p := &QuizImages{
		Cards:  &fakeQuizSource{},
		Store:  &fakeStore{},
		Cache:  newTestCache(t, "quiz_images_cache"),
		Logger: log.NewNop(),
	}

	_, err := p.Run(context.Background(), "missing")
	require.Error(t, err)
}

func TestQuizImages_GenerationErrorContinues(t *testing.T) {
	t.Parallel()

	gen := &fakeImageGen{err: errors.New("quota")}
	store := &fakeStore{}
	p := &QuizImages{
		Cards:    &fakeQuizSource{cards: []supabase.Card{{ID: "c1", Front: "![a]![b]"}}},
		Generate: gen,
		Store:    store,
		Cache:    newTestCache(t, "quiz_images_cache"),
		Bucket:   "b",
		Logger:   log.NewNop(),
	}

	report, err := p.Run(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Skipped)
	assert.Len(t, gen.calls, 2)
	assert.Empty(t, store.uploads)
}
