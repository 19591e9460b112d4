package tilemap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/f3rmion/tilesmith/internal/errors"
)

// StoreTestSuite runs the same checks against every Store implementation.
type StoreTestSuite struct {
	suite.Suite
	open  func(t *testing.T) Store
	store Store
	ctx   context.Context
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.open(s.T())
}

func (s *StoreTestSuite) TearDownTest() {
	s.NoError(s.store.Close())
}

func snapshot(name string, salt int, cells ...string) *Snapshot {
	return &Snapshot{Name: name, Salt: salt, Width: len(cells), Height: 1, Cells: cells}
}

func (s *StoreTestSuite) TestSaveAndLoad() {
	in := snapshot("yard", 7, "props/rock", "", "grass/visible")
	s.Require().NoError(s.store.Save(s.ctx, in))
	s.False(in.UpdatedAt.IsZero())

	out, err := s.store.Load(s.ctx, "yard")
	s.Require().NoError(err)
	s.Equal(in.Name, out.Name)
	s.Equal(7, out.Salt)
	s.Equal(3, out.Width)
	s.Equal(1, out.Height)
	s.Equal(in.Cells, out.Cells)
	s.True(in.UpdatedAt.Equal(out.UpdatedAt))
}

func (s *StoreTestSuite) TestSaveReplaces() {
	s.Require().NoError(s.store.Save(s.ctx, snapshot("yard", 1, "a/b", "a/b")))
	s.Require().NoError(s.store.Save(s.ctx, &Snapshot{
		Name: "yard", Width: 1, Height: 2, Cells: []string{"", "c/d"},
	}))

	out, err := s.store.Load(s.ctx, "yard")
	s.Require().NoError(err)
	s.Equal(0, out.Salt)
	s.Equal([]string{"", "c/d"}, out.Cells)
}

func (s *StoreTestSuite) TestSaveRejectsInvalid() {
	err := s.store.Save(s.ctx, &Snapshot{Name: "bad", Width: 2, Height: 2})
	s.True(errors.IsInvalidArgument(err))
}

func (s *StoreTestSuite) TestLoadMissing() {
	_, err := s.store.Load(s.ctx, "nope")
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *StoreTestSuite) TestList() {
	s.Require().NoError(s.store.Save(s.ctx, snapshot("b", 0, "x/y", "")))
	s.Require().NoError(s.store.Save(s.ctx, snapshot("a", 0, "x/y", "x/y", "x/y")))

	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("a", list[0].Name)
	s.Equal(3, list[0].Count)
	s.Equal("b", list[1].Name)
	s.Equal(1, list[1].Count)
	s.Equal(2, list[1].Width)
}

func (s *StoreTestSuite) TestNameMatchingIndexKey() {
	s.Require().NoError(s.store.Save(s.ctx, snapshot("yard", 0, "x/y")))
	s.Require().NoError(s.store.Save(s.ctx, snapshot("index", 0, "x/y", "x/y")))

	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("index", list[0].Name)
	s.Equal(2, list[0].Count)
	s.Equal("yard", list[1].Name)

	out, err := s.store.Load(s.ctx, "index")
	s.Require().NoError(err)
	s.Equal([]string{"x/y", "x/y"}, out.Cells)
}

func (s *StoreTestSuite) TestDelete() {
	s.Require().NoError(s.store.Save(s.ctx, snapshot("yard", 0, "x/y")))
	s.Require().NoError(s.store.Delete(s.ctx, "yard"))

	_, err := s.store.Load(s.ctx, "yard")
	s.True(errors.IsNotFound(err))
	s.True(errors.IsNotFound(s.store.Delete(s.ctx, "yard")))

	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
}

func TestSQLiteStore(t *testing.T) {
	suite.Run(t, &StoreTestSuite{open: func(t *testing.T) Store {
		store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "maps.db"))
		if err != nil {
			t.Fatal(err)
		}
		store.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
		return store
	}})
}

func TestRedisStore(t *testing.T) {
	suite.Run(t, &StoreTestSuite{open: func(t *testing.T) Store {
		mr := miniredis.RunT(t)
		store, err := NewRedis(&RedisConfig{
			Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		})
		if err != nil {
			t.Fatal(err)
		}
		return store
	}})
}

func TestRedisStoreKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedis(&RedisConfig{
		Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		Prefix: "test:",
	})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.Save(context.Background(), snapshot("yard", 0, "x/y")); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("test:map:yard") {
		t.Error("expected snapshot key test:map:yard")
	}
	if ok, _ := mr.IsMember("test:index", "yard"); !ok {
		t.Error("expected yard in test:index")
	}
}

func TestRedisConfigValidate(t *testing.T) {
	_, err := NewRedis(nil)
	if !errors.IsInvalidArgument(err) {
		t.Errorf("nil config: got %v", err)
	}
	_, err = NewRedis(&RedisConfig{})
	if !errors.IsInvalidArgument(err) {
		t.Errorf("nil client: got %v", err)
	}
}
