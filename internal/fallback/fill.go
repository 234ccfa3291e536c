package fallback

import (
	"cafe-site/internal/model"

	"github.com/tidwall/gjson"
)

// profileFields maps every string leaf of a stored profile document to its field.
var profileFields = []struct {
	path  string
	field func(*model.BusinessProfile) *string
}{
	{"name", func(p *model.BusinessProfile) *string { return &p.Name }},
	{"subtitle", func(p *model.BusinessProfile) *string { return &p.Subtitle }},
	{"description", func(p *model.BusinessProfile) *string { return &p.Description }},
	{"logo", func(p *model.BusinessProfile) *string { return &p.Logo }},
	{"heroImage", func(p *model.BusinessProfile) *string { return &p.HeroImage }},
	{"address", func(p *model.BusinessProfile) *string { return &p.Address }},
	{"city", func(p *model.BusinessProfile) *string { return &p.City }},
	{"phone", func(p *model.BusinessProfile) *string { return &p.Phone }},
	{"email", func(p *model.BusinessProfile) *string { return &p.Email }},
	{"instagram", func(p *model.BusinessProfile) *string { return &p.Instagram }},
	{"mapUrl", func(p *model.BusinessProfile) *string { return &p.MapURL }},
	{"hours.weekdays", func(p *model.BusinessProfile) *string { return &p.Hours.Weekdays }},
	{"hours.saturday", func(p *model.BusinessProfile) *string { return &p.Hours.Saturday }},
	{"hours.sunday", func(p *model.BusinessProfile) *string { return &p.Hours.Sunday }},
	{"about.sectionLabel", func(p *model.BusinessProfile) *string { return &p.About.SectionLabel }},
	{"about.title", func(p *model.BusinessProfile) *string { return &p.About.Title }},
	{"about.titleHighlight", func(p *model.BusinessProfile) *string { return &p.About.TitleHighlight }},
	{"about.paragraph1", func(p *model.BusinessProfile) *string { return &p.About.Paragraph1 }},
	{"about.paragraph2", func(p *model.BusinessProfile) *string { return &p.About.Paragraph2 }},
	{"about.image", func(p *model.BusinessProfile) *string { return &p.About.Image }},
	{"about.floatingNumber", func(p *model.BusinessProfile) *string { return &p.About.FloatingNumber }},
	{"about.floatingText", func(p *model.BusinessProfile) *string { return &p.About.FloatingText }},
}

// FillProfile overlays a stored, possibly partial profile document onto base.
//
// Every string field present in raw wins, including empty strings; absent,
// null or mistyped fields keep the value from base. The feature list is
// all-or-nothing: when raw carries an about.features array (even an empty
// one) it replaces base's list wholesale, otherwise base's list is kept.
func FillProfile(raw []byte, base model.BusinessProfile) model.BusinessProfile {
	out := base.Clone()

	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return out
	}
	doc := gjson.ParseBytes(raw)

	for _, f := range profileFields {
		if v := doc.Get(f.path); v.Type == gjson.String {
			*f.field(&out) = v.Str
		}
	}

	if features := doc.Get("about.features"); features.IsArray() {
		out.About.Features = decodeFeatures(features)
	}

	return out
}

func decodeFeatures(list gjson.Result) []model.Feature {
	features := make([]model.Feature, 0)
	list.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		features = append(features, model.Feature{
			ID:      v.Get("id").String(),
			Icon:    v.Get("icon").String(),
			Label:   v.Get("label").String(),
			Enabled: v.Get("enabled").Bool(),
		})
		return true
	})
	return features
}
