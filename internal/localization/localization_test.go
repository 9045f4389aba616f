package localization

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLocalizer_HasNotificationKeys(t *testing.T) {
	l, err := NewDefaultLocalizer()
	require.NoError(t, err)

	for _, lang := range []string{"en", "uk"} {
		require.Contains(t, l.translations, lang)
		for _, key := range []string{"complaint_filed", "status_changed", "yes", "no"} {
			value, ok := l.translations[lang][key]
			assert.True(t, ok, "%s missing in %s", key, lang)
			assert.NotEmpty(t, value, "%s empty in %s", key, lang)
		}
	}

	// English words may equal their keys.
	assert.Equal(t, "yes", l.GetString("en", "yes"))
	assert.Equal(t, "no", l.GetString("en", "no"))
}

func TestGetString_Fallbacks(t *testing.T) {
	fsys := fstest.MapFS{
		"loc/en.json":    {Data: []byte(`{"greeting":"Hello","only_en":"English only"}`)},
		"loc/uk.json":    {Data: []byte(`{"greeting":"Привіт"}`)},
		"loc/readme.txt": {Data: []byte("ignored")},
	}
	l, err := NewLocalizer(fsys, "loc")
	require.NoError(t, err)

	assert.Equal(t, "Привіт", l.GetString("uk", "greeting"))
	assert.Equal(t, "English only", l.GetString("uk", "only_en"))
	assert.Equal(t, "Hello", l.GetString("de", "greeting"))
	assert.Equal(t, "missing_key", l.GetString("en", "missing_key"))
}

func TestFormat(t *testing.T) {
	fsys := fstest.MapFS{"loc/en.json": {Data: []byte(`{"moved":"%s -> %s"}`)}}
	l, err := NewLocalizer(fsys, "loc")
	require.NoError(t, err)

	assert.Equal(t, "Pending -> Resolved", l.Format("en", "moved", "Pending", "Resolved"))
}

func TestNewLocalizer_BadJSON(t *testing.T) {
	fsys := fstest.MapFS{"loc/en.json": {Data: []byte(`{not json`)}}
	_, err := NewLocalizer(fsys, "loc")
	assert.Error(t, err)
}
