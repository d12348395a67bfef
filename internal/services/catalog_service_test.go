package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-posts-backend/internal/apierr"
	"github.com/tbourn/go-posts-backend/internal/domain"
)

func newCatalogDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("catalog_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestCatalogService_Categories(t *testing.T) {
	db := newCatalogDB(t, &domain.Category{})
	for _, n := range []string{"Zed", "Ada"} {
		c := domain.Category{Name: n, Slug: n}
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("seed %s: %v", n, err)
		}
	}

	s := &CatalogService{DB: db}
	out, err := s.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(out) != 2 || out[0].Name != "Ada" {
		t.Fatalf("unexpected listing: %+v", out)
	}
}

func TestCatalogService_Tags(t *testing.T) {
	db := newCatalogDB(t, &domain.Tag{})
	tg := domain.Tag{Name: "go", Slug: "go"}
	if err := db.Create(&tg).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	s := &CatalogService{DB: db}
	out, err := s.Tags(context.Background())
	if err != nil || len(out) != 1 {
		t.Fatalf("Tags: %v, %+v", err, out)
	}
}

func TestCatalogService_DBErrorTranslated(t *testing.T) {
	db := newCatalogDB(t /* no migrations */)
	s := &CatalogService{DB: db}

	_, err := s.Categories(context.Background())
	ae := asAPIErr(t, err)
	if ae.Code != apierr.CodeDatabase {
		t.Fatalf("unexpected code: %s", ae.Code)
	}

	_, err = s.Tags(context.Background())
	if ae := asAPIErr(t, err); ae.Code != apierr.CodeDatabase {
		t.Fatalf("unexpected code: %s", ae.Code)
	}
}
