package faqsource

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faqbot/internal/domain/faq"
)

type stubObject struct {
	io.Reader
	closed bool
}

func (o *stubObject) Close() error {
	o.closed = true
	return nil
}

type stubGetter struct {
	objects map[string]*stubObject
	bucket  string
}

func (g *stubGetter) GetObject(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	g.bucket = bucket
	obj, ok := g.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return obj, nil
}

func newStubGetter(objects map[string]string) *stubGetter {
	g := &stubGetter{objects: make(map[string]*stubObject, len(objects))}
	for key, body := range objects {
		g.objects[key] = &stubObject{Reader: strings.NewReader(body)}
	}
	return g
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "abc.r2.cloudflarestorage.com", sanitizeEndpoint("https://abc.r2.cloudflarestorage.com/bucket"))
	require.Equal(t, "localhost:9000", sanitizeEndpoint(" http://localhost:9000 "))
	require.Equal(t, "s3.amazonaws.com", sanitizeEndpoint("s3.amazonaws.com"))
}

func TestNewObjectSource(t *testing.T) {
	_, err := NewObjectSource(ObjectConfig{Endpoint: "localhost:9000", Bucket: "faq"})
	require.Error(t, err)

	src, err := NewObjectSource(ObjectConfig{
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "faq",
		Key:       "library/faqs.yaml",
	})
	require.NoError(t, err)
	require.Equal(t, "s3:faq/library/faqs.yaml", src.Describe())
	require.Equal(t, FormatYAML, src.format)
}

func TestObjectSourceLoad(t *testing.T) {
	getter := newStubGetter(map[string]string{
		"library/faqs.json": `[{"question": ["Açılış saati nedir?", "Saat kaçta açılıyor?"], "answer": "09:00"}]`,
		"library/faqs.yml":  "- question: Kartımı kaybettim\n  answer: Danışmaya başvurun.\n",
	})

	src := newObjectSource(getter, "faq", "library/faqs.json")
	entries, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []faq.Entry{{Questions: []string{"Açılış saati nedir?", "Saat kaçta açılıyor?"}, Answer: "09:00"}}, entries)
	require.Equal(t, "faq", getter.bucket)
	require.True(t, getter.objects["library/faqs.json"].closed)

	src = newObjectSource(getter, "faq", "library/faqs.yml")
	entries, err = src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []faq.Entry{{Questions: []string{"Kartımı kaybettim"}, Answer: "Danışmaya başvurun."}}, entries)
	require.True(t, getter.objects["library/faqs.yml"].closed)
}

func TestObjectSourceLoadErrors(t *testing.T) {
	getter := newStubGetter(map[string]string{
		"big.json":    `[{"question": "Açılış saati nedir?", "answer": "09:00"}]`,
		"broken.json": `{"question": "not a list"}`,
	})

	_, err := newObjectSource(getter, "faq", "missing.json").Load(context.Background())
	require.ErrorContains(t, err, "get faq object: no such key")

	src := newObjectSource(getter, "faq", "big.json")
	src.maxSize = 16
	_, err = src.Load(context.Background())
	require.ErrorContains(t, err, "exceeds 16 bytes")
	require.True(t, getter.objects["big.json"].closed)

	_, err = newObjectSource(getter, "faq", "broken.json").Load(context.Background())
	require.ErrorIs(t, err, faq.ErrMalformedEntry)
}
