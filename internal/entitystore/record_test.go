package entitystore

import (
	"encoding/json"
	"testing"
)

func TestUnmarshalLegacyBareString(t *testing.T) {
	data := []byte(`"data:image/png;base64,AAAA"`)

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if rec.BannerImage == nil || *rec.BannerImage != "data:image/png;base64,AAAA" {
		t.Errorf("BannerImage = %v, want legacy string normalized", rec.BannerImage)
	}
	if rec.SourceImage != nil || rec.AccentColor != nil || rec.QuoteColor != nil {
		t.Errorf("legacy record set unexpected fields: %+v", rec)
	}
}

func TestUnmarshalObjectShape(t *testing.T) {
	data := []byte(`{"bannerImage": "data:image/png;base64,BBBB", "accentColor": "#112233"}`)

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if rec.BannerImage == nil || *rec.BannerImage != "data:image/png;base64,BBBB" {
		t.Errorf("BannerImage = %v", rec.BannerImage)
	}
	if rec.AccentColor == nil || *rec.AccentColor != "#112233" {
		t.Errorf("AccentColor = %v", rec.AccentColor)
	}
	if rec.QuoteColor != nil {
		t.Errorf("QuoteColor = %v, want nil", rec.QuoteColor)
	}
}

func TestMergePreservesAbsentFields(t *testing.T) {
	rec := Record{BannerImage: String("data:image/png;base64,AAAA")}
	rec.merge(Record{AccentColor: String("#ffffff")})

	if rec.BannerImage == nil || *rec.BannerImage != "data:image/png;base64,AAAA" {
		t.Errorf("merge dropped BannerImage: %v", rec.BannerImage)
	}
	if rec.AccentColor == nil || *rec.AccentColor != "#ffffff" {
		t.Errorf("AccentColor = %v", rec.AccentColor)
	}
}

func TestMergeKeepsClearedImageDistinctFromAbsent(t *testing.T) {
	rec := Record{BannerImage: String("data:image/png;base64,AAAA"), SourceImage: String("data:image/png;base64,SRC")}
	rec.merge(Record{BannerImage: String("")})

	if rec.BannerImage == nil {
		t.Fatal("cleared BannerImage collapsed to absent")
	}
	if *rec.BannerImage != "" {
		t.Errorf("BannerImage = %q, want empty (cleared)", *rec.BannerImage)
	}
	if rec.SourceImage == nil || *rec.SourceImage != "data:image/png;base64,SRC" {
		t.Errorf("SourceImage = %v, want retained", rec.SourceImage)
	}
}

func TestMergeEmptyColorRevertsToInherit(t *testing.T) {
	rec := Record{AccentColor: String("#e79fa8")}
	rec.merge(Record{AccentColor: String("")})

	if rec.AccentColor != nil {
		t.Errorf("AccentColor = %v, want nil (inherit)", rec.AccentColor)
	}
}
