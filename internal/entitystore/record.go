package entitystore

import "encoding/json"

// Record holds one entity's styling overrides. Pointer fields keep two
// distinct absent states for the images: nil means "never configured", an
// empty string means "cleared, but deliberately so". SourceImage retains the
// original uncropped image so the host can re-crop without re-fetching.
type Record struct {
	BannerImage *string `json:"bannerImage,omitempty"`
	SourceImage *string `json:"sourceImage,omitempty"`
	AccentColor *string `json:"accentColor,omitempty"`
	QuoteColor  *string `json:"quoteColor,omitempty"`
}

// UnmarshalJSON accepts both the current object shape and the legacy format,
// a bare JSON string holding only the banner image. Normalization happens
// here, at the load boundary; everything downstream sees the object shape.
func (r *Record) UnmarshalJSON(data []byte) error {
	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		*r = Record{BannerImage: &legacy}
		return nil
	}

	type plain Record
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Record(p)
	return nil
}

// merge shallow-merges partial into r. Fields absent from partial are left
// untouched. Image fields keep an explicit empty string (cleared state);
// color fields treat an explicit empty string as "revert to inherit" and
// drop the override entirely.
func (r *Record) merge(partial Record) {
	if partial.BannerImage != nil {
		r.BannerImage = cloneString(partial.BannerImage)
	}
	if partial.SourceImage != nil {
		r.SourceImage = cloneString(partial.SourceImage)
	}
	if partial.AccentColor != nil {
		if *partial.AccentColor == "" {
			r.AccentColor = nil
		} else {
			r.AccentColor = cloneString(partial.AccentColor)
		}
	}
	if partial.QuoteColor != nil {
		if *partial.QuoteColor == "" {
			r.QuoteColor = nil
		} else {
			r.QuoteColor = cloneString(partial.QuoteColor)
		}
	}
}

func (r Record) clone() Record {
	return Record{
		BannerImage: cloneString(r.BannerImage),
		SourceImage: cloneString(r.SourceImage),
		AccentColor: cloneString(r.AccentColor),
		QuoteColor:  cloneString(r.QuoteColor),
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// String is a convenience for building partial records in callers and tests.
func String(s string) *string {
	return &s
}
