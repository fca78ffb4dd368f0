package cache

import (
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/nao1215/sitelens/internal/model"
	"github.com/nao1215/sitelens/internal/pathguard"
)

const site = pathguard.ResolvedPath("/site")

func TestGetMissing(t *testing.T) {
	t.Parallel()

	s := New()
	if _, ok := s.Get(site); ok {
		t.Error("expected miss on empty store")
	}
}

func TestPutMergesFamilies(t *testing.T) {
	t.Parallel()

	s := New()
	links := []model.LinkResult{{File: "/site/index.html", Link: "missing.html", Status: model.LinkMissing}}
	s.Put(site, model.ScanBucket{Links: links})
	s.Put(site, model.ScanBucket{Accessibility: []model.FileResult{model.NewFileResult("/site/index.html", nil)}})

	got, ok := s.Get(site)
	if !ok {
		t.Fatal("expected hit")
	}
	if !slices.Equal(got.Links, links) {
		t.Errorf("links were not preserved: %+v", got.Links)
	}
	if len(got.Accessibility) != 1 {
		t.Errorf("accessibility was not stored: %+v", got.Accessibility)
	}
	if got.Assets != nil {
		t.Error("assets should still be absent")
	}

	// A later scan of the same family replaces the earlier one.
	s.Put(site, model.ScanBucket{Links: []model.LinkResult{}})
	got, _ = s.Get(site)
	if got.Links == nil || len(got.Links) != 0 {
		t.Errorf("expected replaced empty links, got %#v", got.Links)
	}
	if len(got.Accessibility) != 1 {
		t.Error("accessibility must survive a links update")
	}
}

func TestKeysAreExact(t *testing.T) {
	t.Parallel()

	s := New()
	s.Put(site, model.ScanBucket{Links: []model.LinkResult{}})
	s.Put("/site/index.html", model.ScanBucket{Accessibility: []model.FileResult{}})

	if _, ok := s.Get("/site/"); ok {
		t.Error("keys must not be normalized by the store")
	}
	dir, _ := s.Get(site)
	if dir.Accessibility != nil {
		t.Error("file scan must not leak into directory bucket")
	}
	if !slices.Equal(s.Keys(), []pathguard.ResolvedPath{"/site", "/site/index.html"}) {
		t.Errorf("got keys %v", s.Keys())
	}
	if s.Len() != 2 {
		t.Errorf("got len %d, expected 2", s.Len())
	}
}

func TestGetReturnsCopy(t *testing.T) {
	t.Parallel()

	s := New()
	s.Put(site, model.ScanBucket{Links: []model.LinkResult{{Link: "a.html"}}})

	got, _ := s.Get(site)
	got.Links[0].Link = "tampered"

	again, _ := s.Get(site)
	if again.Links[0].Link != "a.html" {
		t.Error("mutating a returned bucket changed the store")
	}
}

func TestConcurrentPutsKeepEveryFamily(t *testing.T) {
	t.Parallel()

	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			s.Put(site, model.ScanBucket{Links: []model.LinkResult{{Link: fmt.Sprint(i)}}})
		}()
		go func() {
			defer wg.Done()
			s.Put(site, model.ScanBucket{Accessibility: []model.FileResult{}})
		}()
		go func() {
			defer wg.Done()
			s.Put(site, model.ScanBucket{Assets: &model.AssetSummary{}})
		}()
	}
	wg.Wait()

	got, _ := s.Get(site)
	if got.Links == nil || got.Accessibility == nil || got.Assets == nil {
		t.Errorf("a family was lost under concurrent puts: %v", got.Families())
	}
}
