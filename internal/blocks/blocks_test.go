package blocks

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestParseBlockType(t *testing.T) {
	for _, bt := range All() {
		got, err := ParseBlockType(string(bt))
		if err != nil {
			t.Fatalf("ParseBlockType(%q) error: %v", bt, err)
		}
		if got != bt {
			t.Errorf("ParseBlockType(%q) = %q", bt, got)
		}
	}

	for _, bad := range []string{"", "hero", "CAROUSEL", "NAVBAR "} {
		if _, err := ParseBlockType(bad); !errors.Is(err, ErrUnknownBlockType) {
			t.Errorf("ParseBlockType(%q) error = %v, want ErrUnknownBlockType", bad, err)
		}
	}
}

func TestIsContent(t *testing.T) {
	if Navbar.IsContent() || Footer.IsContent() {
		t.Error("navbar and footer should not be content blocks")
	}
	if !Hero.IsContent() || !Stats.IsContent() {
		t.Error("hero and stats should be content blocks")
	}
	if BlockType("CAROUSEL").IsContent() {
		t.Error("unknown type should not be a content block")
	}
}

func TestNewBlockAllTypes(t *testing.T) {
	for _, bt := range All() {
		t.Run(string(bt), func(t *testing.T) {
			b, err := NewBlock(bt, "blk-1")
			if err != nil {
				t.Fatalf("NewBlock: %v", err)
			}
			if b.Type != bt {
				t.Errorf("Type = %q, want %q", b.Type, bt)
			}
			if b.ID() != "blk-1" {
				t.Errorf("ID = %q, want blk-1", b.ID())
			}
			if b.Config.Kind() != bt {
				t.Errorf("Config.Kind = %q, want %q", b.Config.Kind(), bt)
			}
			if b.Config.Variant() != "variant-1" {
				t.Errorf("Variant = %q, want variant-1", b.Config.Variant())
			}
		})
	}
}

func TestNewBlockFreshDefaults(t *testing.T) {
	a, _ := NewBlock(Hero, "a")
	b, _ := NewBlock(Hero, "b")
	a.Config.(*HeroConfig).Title = "changed"
	if b.Config.(*HeroConfig).Title == "changed" {
		t.Error("default configs share state between blocks")
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("CAROUSEL"); !errors.Is(err, ErrUnknownBlockType) {
		t.Errorf("Lookup error = %v, want ErrUnknownBlockType", err)
	}
	if _, err := NewBlock("CAROUSEL", "x"); !errors.Is(err, ErrUnknownBlockType) {
		t.Errorf("NewBlock error = %v, want ErrUnknownBlockType", err)
	}
}

func TestRegister(t *testing.T) {
	r := DefaultRegistry()

	err := r.Register("CAROUSEL", Definition{Default: func() Config { return &HeroConfig{} }})
	if !errors.Is(err, ErrUnknownBlockType) {
		t.Errorf("Register unknown tag error = %v, want ErrUnknownBlockType", err)
	}
	if err := r.Register(Hero, Definition{}); err == nil {
		t.Error("Register without default should fail")
	}

	err = r.Register(Hero, Definition{
		Metadata: Metadata{DisplayName: "Banner"},
		Default:  func() Config { return &HeroConfig{Title: "Custom"} },
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	b, err := r.NewBlock(Hero, "h1")
	if err != nil {
		t.Fatalf("NewBlock: %v", err)
	}
	if got := b.Config.(*HeroConfig).Title; got != "Custom" {
		t.Errorf("Title = %q, want Custom", got)
	}

	// The stock registry is unaffected.
	def, _ := Lookup(Hero)
	if def.Metadata.DisplayName != "Hero Section" {
		t.Errorf("stock DisplayName = %q", def.Metadata.DisplayName)
	}
}

func TestRegisterWrongDefault(t *testing.T) {
	r := DefaultRegistry()
	_ = r.Register(Stats, Definition{Default: func() Config { return &HeroConfig{} }})
	if _, err := r.NewBlock(Stats, "s1"); err == nil {
		t.Error("NewBlock should reject a default of the wrong type")
	}
}

func TestTypesOrder(t *testing.T) {
	if got := DefaultRegistry().Types(); !reflect.DeepEqual(got, All()) {
		t.Errorf("Types = %v, want %v", got, All())
	}
	if got := NewRegistry().Types(); len(got) != 0 {
		t.Errorf("empty registry Types = %v", got)
	}
}

func TestBlockJSONRoundTrip(t *testing.T) {
	for _, bt := range All() {
		t.Run(string(bt), func(t *testing.T) {
			b, _ := NewBlock(bt, "id-"+string(bt))
			data, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var got Block
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !reflect.DeepEqual(got, b) {
				t.Errorf("round trip mismatch:\n got %#v\nwant %#v", got, b)
			}
		})
	}
}

func TestBlockPreservesUnknownKeys(t *testing.T) {
	in := `{
		"type": "HERO",
		"config": {"id": "h1", "title": "Hi", "subtitle": "There", "parallax": {"speed": 0.5}, "badge": "new"},
		"locked": true
	}`

	var b Block
	if err := json.Unmarshal([]byte(in), &b); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	hero := b.Config.(*HeroConfig)
	if hero.Title != "Hi" || hero.ID != "h1" {
		t.Errorf("decoded hero = %+v", hero)
	}
	if got := string(hero.Extra["parallax"]); got != `{"speed":0.5}` {
		t.Errorf("parallax extra = %s", got)
	}
	if got := string(b.Extra["locked"]); got != "true" {
		t.Errorf("block extra locked = %s", got)
	}

	out, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	cfg := doc["config"].(map[string]any)
	if cfg["badge"] != "new" {
		t.Errorf("badge lost: %v", cfg)
	}
	if doc["locked"] != true {
		t.Errorf("locked lost: %v", doc)
	}
}

func TestBlockKnownKeysCaseInsensitive(t *testing.T) {
	var b Block
	in := `{"type":"TEXT_SECTION","config":{"id":"t1","Heading":"Title","content":"Body"}}`
	if err := json.Unmarshal([]byte(in), &b); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(b.Config.(*TextSectionConfig).Extra) != 0 {
		t.Errorf("Heading should be matched as a known key, extras = %v", b.Config.(*TextSectionConfig).Extra)
	}
}

func TestBlockUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "unknown type", input: `{"type":"CAROUSEL","config":{"id":"x"}}`, wantErr: ErrUnknownBlockType},
		{name: "missing config", input: `{"type":"HERO"}`, wantErr: ErrMissingConfig},
		{name: "null config", input: `{"type":"HERO","config":null}`, wantErr: ErrMissingConfig},
		{name: "missing type", input: `{"config":{"id":"x"}}`},
		{name: "config not object", input: `{"type":"HERO","config":[1,2]}`},
		{name: "ill-typed field", input: `{"type":"STATS","config":{"id":"x","showIcons":"yes"}}`},
		{name: "not an object", input: `"HERO"`},
		{name: "null", input: `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Block
			err := json.Unmarshal([]byte(tt.input), &b)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFieldsAndClone(t *testing.T) {
	b, _ := NewBlock(Navbar, "n1")
	nav := b.Config.(*NavbarConfig)
	nav.Links = []Link{{Label: "Home", PageID: "p1"}}
	nav.Extra = map[string]json.RawMessage{"sticky": json.RawMessage("true")}

	fields, err := ConfigFields(nav)
	if err != nil {
		t.Fatalf("ConfigFields: %v", err)
	}
	for _, key := range []string{"id", "layout", "brandName", "links", "sticky"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("ConfigFields missing %q", key)
		}
	}

	clone, err := CloneConfig(nav)
	if err != nil {
		t.Fatalf("CloneConfig: %v", err)
	}
	if !reflect.DeepEqual(clone, Config(nav)) {
		t.Errorf("clone differs:\n got %#v\nwant %#v", clone, nav)
	}
	clone.(*NavbarConfig).Links[0].Label = "Changed"
	if nav.Links[0].Label != "Home" {
		t.Error("clone shares link slice with original")
	}
}

func TestPageLinks(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{
			name: "navbar links",
			cfg:  &NavbarConfig{Links: []Link{{Label: "A", PageID: "p1"}, {Label: "B", PageID: "p2"}}},
			want: []string{"p1", "p2"},
		},
		{
			name: "hero page button",
			cfg:  &HeroConfig{ButtonLink: "p3", ButtonLinkType: LinkTypePage},
			want: []string{"p3"},
		},
		{
			name: "hero external button",
			cfg:  &HeroConfig{ButtonLink: "https://example.com", ButtonLinkType: LinkTypeExternal},
		},
		{
			name: "cta empty link",
			cfg:  &CTAConfig{ButtonLinkType: LinkTypePage},
		},
		{
			name: "footer links",
			cfg:  &FooterConfig{Links: []Link{{Label: "Home", PageID: "p9"}}},
			want: []string{"p9"},
		},
		{
			name: "stats has none",
			cfg:  &StatsConfig{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PageLinks(tt.cfg); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PageLinks = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUniqueness(t *testing.T) {
	tests := []struct {
		policy Uniqueness
		typ    BlockType
		want   bool
	}{
		{UniqueAll, Hero, true},
		{UniqueAll, Navbar, true},
		{UniqueContent, Hero, false},
		{UniqueContent, Navbar, true},
		{UniqueContent, Footer, true},
		{UniqueNone, Navbar, false},
	}
	for _, tt := range tests {
		if got := tt.policy.Restricts(tt.typ); got != tt.want {
			t.Errorf("%s.Restricts(%s) = %v, want %v", tt.policy, tt.typ, got, tt.want)
		}
	}

	if u, err := ParseUniqueness(""); err != nil || u != UniqueAll {
		t.Errorf("ParseUniqueness(\"\") = %q, %v", u, err)
	}
	if _, err := ParseUniqueness("some"); err == nil {
		t.Error("ParseUniqueness should reject unknown policy")
	}
}

func TestPalette(t *testing.T) {
	hero, _ := NewBlock(Hero, "h1")
	nav, _ := NewBlock(Navbar, "n1")
	existing := []Block{hero, nav}

	entries := Palette(existing, UniqueContent)
	if len(entries) != len(All()) {
		t.Fatalf("palette has %d entries, want %d", len(entries), len(All()))
	}
	byType := make(map[BlockType]PaletteEntry)
	for _, e := range entries {
		byType[e.Type] = e
	}
	if e := byType[Hero]; !e.Present || !e.Available {
		t.Errorf("hero entry = %+v, want present and available", e)
	}
	if e := byType[Navbar]; !e.Present || e.Available {
		t.Errorf("navbar entry = %+v, want present and unavailable", e)
	}
	if e := byType[Stats]; e.Present || !e.Available {
		t.Errorf("stats entry = %+v, want absent and available", e)
	}
	if byType[Hero].Metadata.DisplayName == "" {
		t.Error("palette entry missing metadata")
	}

	entries = Palette(existing, UniqueAll)
	for _, e := range entries {
		if e.Type == Hero && e.Available {
			t.Error("hero should be unavailable under UniqueAll")
		}
	}
}
