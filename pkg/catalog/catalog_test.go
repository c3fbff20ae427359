package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/silverconnect/pkg/catalog"
	"github.com/aretw0/silverconnect/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimal = `
activities:
  - {id: 1, name: Yoga, participants: 2, max_participants: 4, difficulty: mudah, category: kesehatan}
communities:
  - {id: 1, name: Berkebun, members: 3, category: hobi}
people:
  - {name: Andi, age: 70, interests: [Reading]}
notifications:
  chat: ["hi {friend_name}"]
  reminder: ["{activity_name} at {time}"]
  community: ["{community_name}"]
  wellness: ["drink water"]
  event: ["event"]
  quote: ["quote"]
`

func TestDefault(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	assert.Len(t, c.Communities(), 7)
	assert.Len(t, c.Activities(), 8)
	assert.NotEmpty(t, c.People())
	require.NotEmpty(t, c.Users())
	assert.Equal(t, "budi", c.Users()[0].Username)
	for _, category := range ports.NotificationCategories {
		assert.NotEmpty(t, c.NotificationTemplates()[category], category)
	}
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c, err := catalog.Parse([]byte(minimal))
	require.NoError(t, err)

	acts := c.Activities()
	acts[0].Participants = 99
	people := c.People()
	people[0].Interests[0] = "Hacked"

	assert.Equal(t, 2, c.Activities()[0].Participants)
	assert.Equal(t, "Reading", c.People()[0].Interests[0])
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{"Malformed", "activities: [", []string{"failed to parse catalog"}},
		{"Empty Pools", "activities: []", []string{"notification pool"}},
		{
			"Duplicate And Over Capacity",
			`
activities:
  - {id: 1, name: A, participants: 5, max_participants: 4}
  - {id: 1, name: B, participants: 0, max_participants: 4}
`,
			[]string{"must be positive and unique", "out of range"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.data))
			for _, want := range tt.want {
				assert.ErrorContains(t, err, want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimal), 0o644))

	c, err := catalog.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Yoga", c.Activities()[0].Name)

	_, err = catalog.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestFileProvider_Watch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimal), 0o644))

	p, err := catalog.NewFileProvider(path)
	require.NoError(t, err)
	assert.Equal(t, "Yoga", p.Activities()[0].Name)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *catalog.Catalog, 4)
	done := make(chan error, 1)
	go func() {
		done <- p.Watch(ctx, func(c *catalog.Catalog) {
			select {
			case changes <- c:
			default:
			}
		})
	}()

	// Give the watcher time to register before the first write.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("activities: ["), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, "Yoga", p.Activities()[0].Name, "broken edits keep the previous catalog")

	updated := []byte(`
activities:
  - {id: 1, name: Tai Chi, participants: 0, max_participants: 4, difficulty: mudah, category: kesehatan}
notifications:
  chat: [a]
  reminder: [b]
  community: [c]
  wellness: [d]
  event: [e]
  quote: [f]
`)
	require.NoError(t, os.WriteFile(path, updated, 0o644))

	select {
	case c := <-changes:
		assert.Equal(t, "Tai Chi", c.Activities()[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}
	assert.Equal(t, "Tai Chi", p.Activities()[0].Name)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
