// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// codec.go converts blocks to and from their JSON document form:
// {"type": "HERO", "config": {"id": "...", ...}}. Keys that no config
// record declares are carried through untouched.
package blocks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// ErrMissingConfig is returned when a block document has no config object.
var ErrMissingConfig = errors.New("block has no config object")

// Block is one visual unit placed on a page.
type Block struct {
	Type   BlockType
	Config Config

	// Extra holds unknown block-level keys next to "type" and "config".
	Extra map[string]json.RawMessage
}

// ID returns the block identifier, or "" when the block has no config.
func (b Block) ID() string {
	if b.Config == nil {
		return ""
	}
	return b.Config.BlockID()
}

// wireBlock is the JSON shape of a block.
type wireBlock struct {
	Type   BlockType       `json:"type"`
	Config json.RawMessage `json:"config"`
}

// MarshalJSON encodes the block with its config and preserved extras.
func (b Block) MarshalJSON() ([]byte, error) {
	if b.Config == nil {
		return nil, ErrMissingConfig
	}
	cfg, err := EncodeConfig(b.Config)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(wireBlock{Type: b.Type, Config: cfg})
	if err != nil {
		return nil, err
	}
	return appendExtras(data, b.Extra), nil
}

// UnmarshalJSON decodes a block document into the typed config for its tag.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode block: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("decode block: not an object")
	}

	var tag string
	if err := json.Unmarshal(raw["type"], &tag); err != nil {
		return fmt.Errorf("decode block type: %w", err)
	}
	t, err := ParseBlockType(tag)
	if err != nil {
		return err
	}

	cfgData, ok := raw["config"]
	if !ok || isNull(cfgData) {
		return ErrMissingConfig
	}
	cfg, err := DecodeConfig(t, cfgData)
	if err != nil {
		return err
	}

	delete(raw, "type")
	delete(raw, "config")
	extra, err := compactAll(raw)
	if err != nil {
		return err
	}

	*b = Block{Type: t, Config: cfg, Extra: extra}
	return nil
}

// EncodeConfig returns the JSON object for cfg, including preserved keys.
// Declared fields come first in declaration order, extras follow sorted.
func EncodeConfig(cfg Config) ([]byte, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode %s config: %w", cfg.Kind(), err)
	}
	return appendExtras(data, cfg.base().Extra), nil
}

// DecodeConfig decodes a JSON object into the config record for t. Keys the
// record does not declare are kept in Base.Extra.
func DecodeConfig(t BlockType, data []byte) (Config, error) {
	cfg, err := newConfig(t)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s config: %w", t, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode %s config: not an object", t)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode %s config: %w", t, err)
	}

	known := declaredKeys(cfg)
	unknown := make(map[string]json.RawMessage)
	for k, v := range raw {
		if !known.has(k) {
			unknown[k] = v
		}
	}
	extra, err := compactAll(unknown)
	if err != nil {
		return nil, err
	}
	cfg.base().Extra = extra
	return cfg, nil
}

// ConfigFields returns cfg as a map of top-level keys to raw JSON values.
func ConfigFields(cfg Config) (map[string]json.RawMessage, error) {
	data, err := EncodeConfig(cfg)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("split %s config: %w", cfg.Kind(), err)
	}
	return fields, nil
}

// CloneConfig returns a deep copy of cfg.
func CloneConfig(cfg Config) (Config, error) {
	data, err := EncodeConfig(cfg)
	if err != nil {
		return nil, err
	}
	return DecodeConfig(cfg.Kind(), data)
}

// WithID returns a deep copy of cfg carrying a different block id.
func WithID(cfg Config, id string) (Config, error) {
	clone, err := CloneConfig(cfg)
	if err != nil {
		return nil, err
	}
	clone.base().ID = id
	return clone, nil
}

// appendExtras splices extra keys into an encoded JSON object.
func appendExtras(obj []byte, extra map[string]json.RawMessage) []byte {
	if len(extra) == 0 {
		return obj
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(obj[:len(obj)-1])
	empty := bytes.Equal(bytes.TrimSpace(obj), []byte("{}"))
	for i, k := range keys {
		if i > 0 || !empty {
			buf.WriteByte(',')
		}
		name, _ := json.Marshal(k)
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// compactAll compacts every value so extras compare equal across round trips.
// Returns nil for an empty map.
func compactAll(in map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]json.RawMessage, len(in))
	for k, v := range in {
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return nil, fmt.Errorf("compact %q: %w", k, err)
		}
		out[k] = json.RawMessage(buf.Bytes())
	}
	return out, nil
}

func isNull(data json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// keySet is the set of JSON keys a record declares. encoding/json matches
// keys case-insensitively, so membership does too.
type keySet []string

func (s keySet) has(key string) bool {
	for _, k := range s {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

var declaredCache sync.Map // reflect.Type -> keySet

// declaredKeys lists the JSON keys of cfg's struct, embedded Base included.
func declaredKeys(cfg Config) keySet {
	typ := reflect.TypeOf(cfg).Elem()
	if cached, ok := declaredCache.Load(typ); ok {
		return cached.(keySet)
	}
	keys := collectKeys(typ, nil)
	declaredCache.Store(typ, keys)
	return keys
}

func collectKeys(typ reflect.Type, keys keySet) keySet {
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			keys = collectKeys(f.Type, keys)
			continue
		}
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		keys = append(keys, name)
	}
	return keys
}
