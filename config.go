package typedcol

import (
	"fmt"

	"github.com/spf13/viper"
)

// ColumnDecl is one entry of a schema declaration file. The schema/codegen
// layer that produces these files is outside this module; LoadSchema is the
// boundary where its output enters.
type ColumnDecl struct {
	Name     string   `mapstructure:"name"`
	Type     string   `mapstructure:"type"`
	Nullable bool     `mapstructure:"nullable"`
	Enum     []string `mapstructure:"enum"`
}

type SchemaConfig struct {
	Table   string       `mapstructure:"table"`
	Columns []ColumnDecl `mapstructure:"columns"`
}

// LoadSchema reads an ordered column-declaration YAML file and builds a Schema.
func LoadSchema(path string) (Schema, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return Schema{}, fmt.Errorf("read schema config: %w", err)
	}

	var cfg SchemaConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return Schema{}, fmt.Errorf("unmarshal schema config: %w", err)
	}

	return buildSchema(cfg)
}

func buildSchema(cfg SchemaConfig) (Schema, error) {
	if len(cfg.Columns) == 0 {
		return Schema{}, fmt.Errorf("schema config: no columns declared")
	}

	s := Schema{Cols: make([]Column, 0, len(cfg.Columns))}
	for _, decl := range cfg.Columns {
		if decl.Name == "" {
			return Schema{}, fmt.Errorf("schema config: column with empty name")
		}
		if s.ColIndex(decl.Name) >= 0 {
			return Schema{}, fmt.Errorf("schema config: duplicate column %q", decl.Name)
		}
		ct, err := ParseColumnType(decl.Type)
		if err != nil {
			return Schema{}, fmt.Errorf("schema config: column %q: %w", decl.Name, err)
		}

		col := Column{Name: decl.Name, Type: ct, Nullable: decl.Nullable}
		switch {
		case ct == ColEnum:
			spec, err := NewEnumSpec(decl.Enum...)
			if err != nil {
				return Schema{}, fmt.Errorf("schema config: column %q: %w", decl.Name, err)
			}
			col.Enum = spec
		case len(decl.Enum) > 0:
			return Schema{}, fmt.Errorf("schema config: column %q: enum values on non-enum type %s", decl.Name, ct)
		}
		s.Cols = append(s.Cols, col)
	}
	return s, nil
}
