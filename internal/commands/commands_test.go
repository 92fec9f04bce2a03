package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dastanaron/echohive/internal/models"
	"github.com/dastanaron/echohive/internal/repository"
	"github.com/dastanaron/echohive/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, profile string) *service.ContentService {
	t.Helper()
	p, err := models.ProfileByName(profile)
	require.NoError(t, err)
	svc := service.NewContentService(repository.NewMemoryRepository(), service.Options{Profile: p})
	svc.Open(context.Background())
	return svc
}

func yes(models.ContentItem) bool { return true }

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"html": FormatHTML, " JSON ": FormatJSON, "yml": FormatYAML, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("csv")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	f, err := FormatFromPath("/tmp/cards.HTM")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)
	_, err = FormatFromPath("cards.txt")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatHTML, FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()
			path := filepath.Join(dir, "cards."+string(format))

			src := newService(t, "food")
			var out bytes.Buffer
			require.NoError(t, NewExportCommand(src, &out).Execute(path, format))
			assert.Contains(t, out.String(), "Exported 4 item(s)")

			dst := newService(t, "food")
			require.NoError(t, NewResetCommand(dst, &out).Execute(ctx))
			for _, it := range dst.Items() {
				require.True(t, dst.Delete(ctx, it.ID, yes))
			}

			out.Reset()
			require.NoError(t, NewImportCommand(dst, &out).Execute(ctx, path))
			assert.Contains(t, out.String(), "Imported 4 of 4 item(s).")

			got := dst.Items()
			require.Len(t, got, 4)
			// food prepends, so importing reverses the order
			assert.Equal(t, "The Art of Sushi Making", got[0].Title)
			assert.Equal(t, "Street Foods Around the World", got[3].Title)
			assert.Equal(t, []string{"street", "international"}, got[3].Tags)
			assert.Equal(t, "Mia", got[3].Author)
			assert.Equal(t, 0, got[3].Likes, "imported items start with no likes")
		})
	}
}

func TestImportSkipsInvalidCards(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.html")
	require.NoError(t, os.WriteFile(path, []byte(`
		<article class="card"><h3>Morning pages</h3><p>Three pages, longhand.</p></article>
		<article class="card"><h3>   </h3><p>No title here.</p></article>
	`), 0o644))

	svc := newService(t, "journal")
	var out bytes.Buffer
	require.NoError(t, NewImportCommand(svc, &out).Execute(ctx, path))

	assert.Contains(t, out.String(), "Imported 1 of 2 item(s).")
	assert.Contains(t, out.String(), "missing [title]")
	require.Len(t, svc.Items(), 1)
	assert.Equal(t, "Three pages, longhand.", svc.Items()[0].Content)
}

func TestImportErrors(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, "destinations")
	var out bytes.Buffer
	cmd := NewImportCommand(svc, &out)

	assert.ErrorIs(t, cmd.Execute(ctx, "cards.csv"), ErrUnknownFormat)
	assert.Error(t, cmd.Execute(ctx, filepath.Join(t.TempDir(), "missing.json")))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"id":1}`), 0o644))
	assert.Error(t, cmd.Execute(ctx, bad))
	assert.Len(t, svc.Items(), 4)
}

func TestExportHTMLEscapes(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, "destinations")
	_, ok := svc.Create(ctx, models.Fields{Title: `<script>alert("x")</script>`, Description: "a & b", Image: "i"})
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, NewExportCommand(svc, &bytes.Buffer{}).Write(&buf, FormatHTML, svc.Items()))

	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
	assert.Contains(t, buf.String(), "<p>a &amp; b</p>")
	assert.Contains(t, buf.String(), `data-category="Mountains"`)
	assert.ErrorIs(t, NewExportCommand(svc, &buf).Write(&buf, "csv", nil), ErrUnknownFormat)
}

func TestClearDoubles(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, "destinations")
	_, ok := svc.Create(ctx, models.Fields{Title: "exploring the SWISS alps ", Description: "again", Image: "i"})
	require.True(t, ok)

	var out bytes.Buffer
	require.NoError(t, NewClearDoublesCommand(svc, &out).Execute(ctx, yes))

	assert.Contains(t, out.String(), "keeping ID: 1")
	assert.Contains(t, out.String(), "Deleted 1 duplicate item(s).")
	assert.Len(t, svc.Items(), 4)

	out.Reset()
	require.NoError(t, NewClearDoublesCommand(svc, &out).Execute(ctx, yes))
	assert.Contains(t, out.String(), "No duplicate items found.")
}

func TestClearDoublesHonorsConfirm(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, "food")
	_, ok := svc.Create(ctx, models.Fields{Title: "Healthy Smoothie Bowls", Description: "d", Image: "i"})
	require.True(t, ok)

	var out bytes.Buffer
	require.NoError(t, NewClearDoublesCommand(svc, &out).Execute(ctx, nil))

	assert.Contains(t, out.String(), "Deleted 0 duplicate item(s).")
	assert.Len(t, svc.Items(), 5)
}
