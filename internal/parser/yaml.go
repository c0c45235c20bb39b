package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// bitfields:
//   - name: Flags
//     pub: true
//     type: u16
//     doc: Status register
//     overlap: allow | deny
//     bounds: implicit | explicit
//     fields:
//       - name: ready
//         type: bool
//         bits: 0..=0          # or a single bit index: 0
//       - name: level
//         type: u8
//         bits: 4..8
//         transform: 2 * v     # CEL body, parameter v
//       - name: mode
//         type: u8
//         bits: 8..10
//         transform:
//           param: m
//           expr: "m == 0 ? 'off' : 'on'"
//           returns: string
//       - name: kind
//         type: u8
//         bits: 10..12
//         transform: {func: kindName, returns: Kind}

type yamlDoc struct {
	Bitfields []yamlBitfield `yaml:"bitfields"`
}

type yamlBitfield struct {
	node *yaml.Node

	Name    string      `yaml:"name"`
	Pub     bool        `yaml:"pub"`
	Type    string      `yaml:"type"`
	Doc     string      `yaml:"doc"`
	Overlap string      `yaml:"overlap"`
	Bounds  string      `yaml:"bounds"`
	Fields  []yamlField `yaml:"fields"`
}

func (b *yamlBitfield) UnmarshalYAML(value *yaml.Node) error {
	type plain yamlBitfield
	if err := value.Decode((*plain)(b)); err != nil {
		return err
	}
	b.node = value
	return nil
}

type yamlField struct {
	node *yaml.Node

	Name      string `yaml:"name"`
	Pub       bool   `yaml:"pub"`
	Type      string `yaml:"type"`
	Doc       string `yaml:"doc"`
	Bits      string `yaml:"bits"`
	Transform any    `yaml:"transform"`
}

func (f *yamlField) UnmarshalYAML(value *yaml.Node) error {
	type plain yamlField
	if err := value.Decode((*plain)(f)); err != nil {
		return err
	}
	f.node = value
	return nil
}

type yamlTransform struct {
	Param   string `mapstructure:"param"`
	Expr    string `mapstructure:"expr"`
	Returns string `mapstructure:"returns"`
	Func    string `mapstructure:"func"`
}

// ParseYAML parses bitfield declarations from a YAML document. name is only
// used in positions.
func ParseYAML(name string, r io.Reader) ([]*Bitfield, error) {
	var doc yamlDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w: %v", name, ErrSyntax, err)
	}

	decls := make([]*Bitfield, 0, len(doc.Bitfields))
	for _, yb := range doc.Bitfields {
		bf, err := yb.bitfield(name)
		if err != nil {
			return nil, err
		}
		decls = append(decls, bf)
	}
	return decls, nil
}

func nodePos(file string, n *yaml.Node) Pos {
	if n == nil {
		return Pos{File: file}
	}
	return Pos{File: file, Line: n.Line, Col: n.Column}
}

// valueNode returns the value node of key in a mapping node, or n itself.
func valueNode(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return n
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return n
}

func splitDoc(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (yb yamlBitfield) bitfield(file string) (*Bitfield, error) {
	pos := nodePos(file, yb.node)
	if yb.Name == "" {
		return nil, errorf(pos, "bitfield without name")
	}
	if yb.Type == "" {
		return nil, errorf(pos, "bitfield %s without type", yb.Name)
	}

	if yb.Overlap != "" && yb.Overlap != OverlapAllow && yb.Overlap != OverlapDeny {
		return nil, errorf(nodePos(file, valueNode(yb.node, "overlap")), "overlap must be 'allow' or 'deny', got: %s", yb.Overlap)
	}
	if yb.Bounds != "" && yb.Bounds != BoundsImplicit && yb.Bounds != BoundsExplicit {
		return nil, errorf(nodePos(file, valueNode(yb.node, "bounds")), "bounds must be 'implicit' or 'explicit', got: %s", yb.Bounds)
	}

	var anno *Annotation
	if yb.Overlap != "" || yb.Bounds != "" {
		anno = &Annotation{Overlap: yb.Overlap, Bounds: yb.Bounds}
	}

	bf := &Bitfield{
		Pos:     pos,
		Doc:     splitDoc(yb.Doc),
		Pub:     yb.Pub,
		Name:    yb.Name,
		Type:    yb.Type,
		TypePos: nodePos(file, valueNode(yb.node, "type")),
		Anno:    anno,
	}

	for _, yf := range yb.Fields {
		f, err := yf.field(file)
		if err != nil {
			return nil, err
		}
		bf.Fields = append(bf.Fields, f)
	}
	return bf, nil
}

func (yf yamlField) field(file string) (Field, error) {
	pos := nodePos(file, yf.node)
	f := Field{
		Pos:     pos,
		Doc:     splitDoc(yf.Doc),
		Pub:     yf.Pub,
		Name:    yf.Name,
		Type:    yf.Type,
		TypePos: nodePos(file, valueNode(yf.node, "type")),
	}
	if f.Name == "" {
		return f, errorf(pos, "field without name")
	}
	if f.Type == "" {
		return f, errorf(pos, "field %s without type", f.Name)
	}

	bitsPos := nodePos(file, valueNode(yf.node, "bits"))
	rng, err := parseBits(yf.Bits)
	if err != nil {
		return f, errorf(bitsPos, "field %s: %v", f.Name, err)
	}
	rng.Pos = bitsPos
	f.Range = rng

	if yf.Transform != nil {
		xPos := nodePos(file, valueNode(yf.node, "transform"))
		t, err := decodeTransform(yf.Transform)
		if err != nil {
			return f, errorf(xPos, "field %s: %v", f.Name, err)
		}
		t.Pos = xPos
		f.Transform = t
	}
	return f, nil
}

// parseBits accepts a range or a single bit index.
func parseBits(s string) (RangeExpr, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RangeExpr{}, fmt.Errorf("missing bits")
	}
	if !strings.Contains(s, "..") {
		n, err := parseInt(s)
		if err != nil {
			return RangeExpr{}, fmt.Errorf("invalid bits %s, want a bit index or a range", strconv.Quote(s))
		}
		return RangeExpr{Start: n, End: n, Inclusive: true}, nil
	}
	r, err := ParseRange(s)
	if err != nil {
		return r, fmt.Errorf("invalid bits %s", strconv.Quote(s))
	}
	return r, nil
}

func decodeTransform(v any) (*Transform, error) {
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("missing transform expression")
		}
		return &Transform{Kind: ExprTransform, Param: "v", Expr: strings.TrimSpace(s)}, nil
	}

	var yt yamlTransform
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &yt,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, fmt.Errorf("invalid transform: %v", err)
	}

	switch {
	case yt.Func != "" && yt.Expr != "":
		return nil, fmt.Errorf("transform has both func and expr")
	case yt.Func != "":
		if yt.Param != "" {
			return nil, fmt.Errorf("func transform takes no param")
		}
		return &Transform{Kind: FuncTransform, Func: yt.Func, Returns: yt.Returns}, nil
	case strings.TrimSpace(yt.Expr) != "":
		param := yt.Param
		if param == "" {
			param = "v"
		}
		return &Transform{Kind: ExprTransform, Param: param, Expr: strings.TrimSpace(yt.Expr), Returns: yt.Returns}, nil
	}
	return nil, fmt.Errorf("missing transform expression")
}
