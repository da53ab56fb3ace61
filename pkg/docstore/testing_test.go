package docstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkdex/inkdex/pkg/bridge"
	"github.com/inkdex/inkdex/pkg/kv"
	"github.com/inkdex/inkdex/pkg/schema"
)

// fakeBridge is an in-memory bridge.Bridge for tests that don't need real
// disk I/O.
type fakeBridge struct {
	files map[string][]byte

	// failPut makes Put return an error, for tests exercising Put's
	// bridge-failure path.
	failPut bool
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{files: map[string][]byte{}}
}

func (f *fakeBridge) Get(ctx context.Context, path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, bridge.ErrNotFound
	}
	return data, nil
}

func (f *fakeBridge) Put(ctx context.Context, path string, data []byte) error {
	if f.failPut {
		return errors.New("fakeBridge: put failed")
	}
	f.files[path] = data
	return nil
}

func (f *fakeBridge) Delete(ctx context.Context, path string) error {
	delete(f.files, path)
	return nil
}

func (f *fakeBridge) Glob(ctx context.Context, pattern string) ([]string, error) {
	var out []string
	for p := range f.files {
		ok, err := filepath.Match(pattern, p)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeBridge) PutConfig(ctx context.Context, name string, data []byte) error {
	return f.Put(ctx, "config/"+name, data)
}

func (f *fakeBridge) SupportsBuilding() bool { return false }

func newTestDB(t *testing.T, sch *schema.Schema) (*Database, *fakeBridge) {
	t.Helper()
	b, _ := openTestStore(t)
	fb := newFakeBridge()
	return Open(fb, b, sch), fb
}

// openTestStore opens a temp-file bbolt store and a no-op close function
// for tests that need to construct a Database with non-default Options.
func openTestStore(t *testing.T) (kv.Store, func()) {
	t.Helper()
	b, err := kv.OpenBolt(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b, func() {}
}

func testSchema() *schema.Schema {
	return schema.New(schema.Collection{
		Name: "posts",
		Fields: []schema.FieldDef{
			{Name: "title", Type: schema.FieldString, Indexed: true},
			{Name: "rank", Type: schema.FieldNumber, Indexed: true},
			{Name: "draft", Type: schema.FieldBoolean, Indexed: true},
		},
	})
}
