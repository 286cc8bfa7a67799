package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jack02280/time-Table/config"
	"github.com/jack02280/time-Table/internal/model"
	"github.com/jack02280/time-Table/internal/repository"
	"github.com/jack02280/time-Table/pkg/kvstore"
)

// ── Mock Store ──

// mockStore 可注入读写失败的内存 blob 存储，并记录写入次数
type mockStore struct {
	mu      sync.Mutex
	inner   *kvstore.MemoryStore
	getErr  error
	setErr  error
	setCall int
}

func newMockStore() *mockStore {
	return &mockStore{inner: kvstore.NewMemoryStore()}
}

func (m *mockStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	err := m.getErr
	m.mu.Unlock()
	if err != nil {
		return "", false, err
	}
	return m.inner.Get(ctx, key)
}

func (m *mockStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	m.setCall++
	err := m.setErr
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return m.inner.Set(ctx, key, value)
}

func (m *mockStore) writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setCall
}

var errMockIO = errors.New("mock io error")

// ── Mock IDGenerator ──

type seqIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *seqIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return "gen-" + strconv.Itoa(g.next)
}

// ── 测试辅助 ──

func testConfig() *config.Config {
	return &config.Config{
		Schedule: config.ScheduleConfig{
			Timezone: "Asia/Shanghai",
			IDScheme: config.IDSchemeTimestamp,
		},
		ICS: config.ICSConfig{
			FetchTimeout: 5 * time.Second,
			MaxBytes:     1 << 20,
		},
	}
}

func newTestRepo(store kvstore.Store) *repository.Repository {
	return repository.NewRepository(store, zap.NewNop())
}

// seedCourses 直接写入初始课程
func seedCourses(store kvstore.Store, courses ...model.Course) {
	repo := repository.NewCourseRepo(store, zap.NewNop())
	_ = repo.ReplaceAll(context.Background(), courses)
}

// loadCourses 读取当前存储中的课程
func loadCourses(store kvstore.Store) []model.Course {
	repo := repository.NewCourseRepo(store, zap.NewNop())
	courses, _ := repo.LoadAll(context.Background())
	return courses
}
