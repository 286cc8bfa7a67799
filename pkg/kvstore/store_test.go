package kvstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_GetMissing(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore 失败: %v", err)
	}
	v, found, err := s.Get(context.Background(), "courses")
	if err != nil || found || v != "" {
		t.Errorf("不存在的 key 期望 (\"\", false, nil), 实际 (%q, %v, %v)", v, found, err)
	}
}

func TestFileStore_SetGetOverwrite(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore 失败: %v", err)
	}
	ctx := context.Background()

	if err := s.Set(ctx, "courses", `[{"id":"1"}]`); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}
	if err := s.Set(ctx, "courses", `[]`); err != nil {
		t.Fatalf("覆盖写入失败: %v", err)
	}
	v, found, err := s.Get(ctx, "courses")
	if err != nil || !found {
		t.Fatalf("Get 失败: found=%v err=%v", found, err)
	}
	if v != `[]` {
		t.Errorf("期望覆盖后的值 [], 实际 %s", v)
	}

	info, err := os.Stat(filepath.Join(dir, "courses.json"))
	if err != nil {
		t.Fatalf("目标文件不存在: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("文件权限期望 0600, 实际 %v", info.Mode().Perm())
	}

	// 不应残留临时文件
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("目录中期望仅 1 个文件, 实际 %d", len(entries))
	}
}

func TestFileStore_InvalidKey(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	if err := s.Set(context.Background(), "../escape", "x"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("期望 ErrInvalidKey, 实际 %v", err)
	}
	if _, _, err := s.Get(context.Background(), "a/b"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("期望 ErrInvalidKey, 实际 %v", err)
	}
}

func TestNewFileStore_EmptyDir(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("空目录应返回错误")
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if _, found, _ := s.Get(ctx, "courses"); found {
		t.Error("新建的 MemoryStore 不应含任何 key")
	}
	_ = s.Set(ctx, "courses", "[]")
	v, found, err := s.Get(ctx, "courses")
	if err != nil || !found || v != "[]" {
		t.Errorf("期望 ([], true, nil), 实际 (%q, %v, %v)", v, found, err)
	}
}
