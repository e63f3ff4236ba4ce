package dataset

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/engagecharts/internal/model"
)

func TestLoadParsesRecords(t *testing.T) {
	input := "\ufeffplatform, PostType ,AGEGROUP,Date,Likes,Shares\n" +
		"Instagram,Photo,18-25,3/2/2024 (Saturday),100,3\n" +
		"\n" +
		"Twitter,Text,26-35,3/3/2024,,1\n"
	ds, err := Load(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(ds.Records))
	}
	first := ds.Records[0]
	if first.Platform != "Instagram" || first.PostType != "Photo" || first.AgeGroup != "18-25" {
		t.Fatalf("unexpected record %+v", first)
	}
	if first.Date != "3/2/2024 (Saturday)" || first.Likes != 100 {
		t.Fatalf("unexpected record %+v", first)
	}
	if ds.Records[1].Likes != 0 {
		t.Fatalf("expected empty likes to count as zero, got %v", ds.Records[1].Likes)
	}
	if len(ds.CoercionErrors) != 0 {
		t.Fatalf("expected no coercion errors, got %+v", ds.CoercionErrors)
	}
}

func TestLoadRecordsCoercionErrors(t *testing.T) {
	input := "Platform,PostType,AgeGroup,Date,Likes\n" +
		"Instagram,Photo,18-25,3/2/2024,lots\n" +
		"Instagram,Photo,18-25,3/2/2024,-5\n" +
		"Instagram,Photo,18-25,3/2/2024,12.5\n"
	ds, err := Load(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ds.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(ds.Records))
	}
	if !math.IsNaN(ds.Records[0].Likes) || !math.IsNaN(ds.Records[1].Likes) || ds.Records[2].Likes != 12.5 {
		t.Fatalf("unexpected likes: %v %v %v", ds.Records[0].Likes, ds.Records[1].Likes, ds.Records[2].Likes)
	}
	if len(ds.CoercionErrors) != 2 {
		t.Fatalf("expected 2 coercion errors, got %d", len(ds.CoercionErrors))
	}
	cerr := ds.CoercionErrors[0]
	if cerr.Row != 2 || cerr.Field != ColLikes || cerr.Value != "lots" {
		t.Fatalf("unexpected coercion error %+v", cerr)
	}
	if !strings.Contains(cerr.Error(), `"lots"`) {
		t.Fatalf("unexpected message %q", cerr.Error())
	}
}

func TestLoadMissingColumn(t *testing.T) {
	_, err := Load(context.Background(), strings.NewReader("Platform,PostType,Date\nx,y,z\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	if !strings.Contains(err.Error(), "AgeGroup, Likes") {
		t.Fatalf("expected missing column names, got %q", err.Error())
	}
}

func TestLoadEmpty(t *testing.T) {
	if _, err := Load(context.Background(), strings.NewReader("")); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestLoadHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	input := "Platform,PostType,AgeGroup,Date,Likes\nInstagram,Photo,18-25,3/2/2024,1\n"
	if _, err := Load(ctx, strings.NewReader(input)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoadFileSetsSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.csv")
	if err := os.WriteFile(path, []byte("Platform,PostType,AgeGroup,Date,Likes\nA,B,C,1/1/2024,2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, err := LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Source != path || len(ds.Records) != 1 {
		t.Fatalf("unexpected dataset %+v", ds)
	}
}

func TestCoerceLikes(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{raw: "42", want: 42, ok: true},
		{raw: " 7.5 ", want: 7.5, ok: true},
		{raw: "", want: 0, ok: true},
		{raw: "1e3", want: 1000, ok: true},
		{raw: "NaN", ok: false},
		{raw: "Inf", ok: false},
		{raw: "-1", ok: false},
		{raw: "12 likes", ok: false},
	}
	for _, tc := range cases {
		got, ok := CoerceLikes(tc.raw)
		if ok != tc.ok {
			t.Fatalf("CoerceLikes(%q): expected ok=%v, got %v", tc.raw, tc.ok, ok)
		}
		if ok && got != tc.want {
			t.Fatalf("CoerceLikes(%q): expected %v, got %v", tc.raw, tc.want, got)
		}
		if !ok && !math.IsNaN(got) {
			t.Fatalf("CoerceLikes(%q): expected NaN, got %v", tc.raw, got)
		}
	}
}

func TestWriteThenLoad(t *testing.T) {
	records := []model.Record{
		{Platform: "Instagram", PostType: "Photo", AgeGroup: "18-25", Date: "3/2/2024 (Saturday)", Likes: 100},
		{Platform: "Twitter, Inc", PostType: "Text", AgeGroup: "26-35", Date: "3/3/2024", Likes: 2.5},
	}
	var buf strings.Builder
	if err := Write(&buf, records); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Platform,PostType,AgeGroup,Date,Likes\n") {
		t.Fatalf("unexpected header in %q", buf.String())
	}
	ds, err := Load(context.Background(), strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ds.Records) != 2 || ds.Records[0] != records[0] || ds.Records[1] != records[1] {
		t.Fatalf("unexpected records %+v", ds.Records)
	}
}

func TestWriteKeepsNaNUnusable(t *testing.T) {
	records := []model.Record{
		{Platform: "TikTok", PostType: "Video", AgeGroup: "18-25", Date: "3/4/2024", Likes: math.NaN()},
	}
	var buf strings.Builder
	if err := Write(&buf, records); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, err := Load(context.Background(), strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ds.Records) != 1 || !math.IsNaN(ds.Records[0].Likes) {
		t.Fatalf("expected NaN likes after reload, got %+v", ds.Records)
	}
	if len(ds.CoercionErrors) != 1 || ds.CoercionErrors[0].Value != "NaN" {
		t.Fatalf("expected one NaN coercion error, got %+v", ds.CoercionErrors)
	}
}
