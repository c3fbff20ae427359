package i18n_test

import (
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/aretw0/silverconnect/internal/i18n"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"en", "en", true},
		{"en-US", "en", true},
		{"id", "id", true},
		{"id_ID", "id", true},
		{"", "en", false},
		{"!!", "en", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tag, ok := i18n.ParseTag(tt.in)
			assert.Equal(t, tt.ok, ok)
			base, _ := tag.Base()
			assert.Equal(t, tt.want, base.String())
		})
	}
}

func TestPrinter_Sprintf(t *testing.T) {
	en, err := i18n.New("en")
	require.NoError(t, err)
	id, err := i18n.New("id")
	require.NoError(t, err)

	assert.Equal(t, "You joined Berkebun.", en.Sprintf("platform.community.joined", "Berkebun"))
	assert.Equal(t, "Anda bergabung dengan Berkebun.", id.Sprintf("platform.community.joined", "Berkebun"))
	assert.Equal(t, i18n.Indonesian, id.Tag())
}

func TestPrinter_Failure(t *testing.T) {
	en, err := i18n.New("en")
	require.NoError(t, err)
	id, err := i18n.New("id")
	require.NoError(t, err)

	full := domain.RuleViolation(domain.RuleCapacityFull, "activity 4 is full")
	assert.Equal(t, "This activity is full.", en.Failure(full))
	assert.Equal(t, "Aktivitas ini sudah penuh.", id.Failure(full))

	assert.Equal(t, "Invalid input: choice 9 is out of range 1-3", en.Failure(domain.InvalidInput("choice 9 is out of range 1-3")))
	assert.Equal(t, "Canceled.", en.Failure(domain.Canceled("selection canceled")))
	assert.Equal(t, "Cannot continue: no community selected", en.Failure(domain.MissingPrecondition("no community selected")))
	assert.Equal(t, "Something went wrong: disk full", en.Failure(fmt.Errorf("disk full")))
	assert.Empty(t, en.Failure(nil))
}

func TestLoad_Validation(t *testing.T) {
	t.Run("Missing Key", func(t *testing.T) {
		fsys := fstest.MapFS{
			"locales/en.yaml": {Data: []byte("locale: en\nmessages:\n  a: A\n  b: B\n")},
			"locales/id.yaml": {Data: []byte("locale: id\nmessages:\n  a: A\n")},
		}
		_, err := i18n.Load(fsys)
		assert.ErrorContains(t, err, `missing key "b"`)
	})

	t.Run("Locale Mismatch", func(t *testing.T) {
		fsys := fstest.MapFS{
			"locales/en.yaml": {Data: []byte("locale: id\nmessages:\n  a: A\n")},
		}
		_, err := i18n.Load(fsys)
		assert.ErrorContains(t, err, "must match file name")
	})

	t.Run("No Base Locale", func(t *testing.T) {
		fsys := fstest.MapFS{
			"locales/id.yaml": {Data: []byte("locale: id\nmessages:\n  a: A\n")},
		}
		_, err := i18n.Load(fsys)
		assert.ErrorContains(t, err, "base locale")
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := i18n.Load(fstest.MapFS{})
		assert.Error(t, err)
	})
}
