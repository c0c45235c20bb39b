package codegen

import (
	"fmt"
	"go/format"
	"strconv"
	"strings"

	"github.com/alexhholmes/bitfield/internal/analyzer"
	"github.com/alexhholmes/bitfield/internal/parser"
	"github.com/alexhholmes/bitfield/xform"
)

// Header is the first line of every generated file
const Header = "// Code generated by bitfieldgen. DO NOT EDIT."

const xformImport = "github.com/alexhholmes/bitfield/xform"

// Generator generates accessor code for bitfield containers
type Generator struct {
	pkg        string
	source     string // input file name, empty to omit
	containers []*analyzer.Container
}

// NewGenerator creates a new code generator for one output file
func NewGenerator(pkg, source string, containers []*analyzer.Container) *Generator {
	return &Generator{
		pkg:        pkg,
		source:     source,
		containers: containers,
	}
}

// needsXform returns true if any field has an expression transform
func (g *Generator) needsXform() bool {
	for _, c := range g.containers {
		for _, f := range c.Fields {
			if f.Transform != nil && f.Transform.Kind == parser.ExprTransform {
				return true
			}
		}
	}
	return false
}

// Generate returns the formatted source of the whole file
func (g *Generator) Generate() ([]byte, error) {
	var code strings.Builder

	code.WriteString(Header + "\n")
	if g.source != "" {
		code.WriteString(fmt.Sprintf("// Source: %s\n", g.source))
	}
	code.WriteString(fmt.Sprintf("\npackage %s\n\n", g.pkg))

	code.WriteString("import (\n")
	code.WriteString("\t\"fmt\"\n")
	if g.needsXform() {
		code.WriteString(fmt.Sprintf("\n\t%q\n", xformImport))
	}
	code.WriteString(")\n")

	for _, c := range g.containers {
		code.WriteString("\n")
		code.WriteString(GenerateType(c))
	}

	src, err := format.Source([]byte(code.String()))
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w", err)
	}
	return src, nil
}

// GenerateType returns the declarations for one container, unformatted
func GenerateType(c *analyzer.Container) string {
	var code strings.Builder

	code.WriteString(generateTypeDecl(c))
	code.WriteString(generateTransformVars(c))
	code.WriteString(generateWholeValue(c))
	code.WriteString(generateByteAccess(c))
	for _, f := range c.Fields {
		code.WriteString(generateGetter(c, f))
		code.WriteString(generateSetter(c, f))
	}
	code.WriteString(generateString(c))

	return code.String()
}

func hex(v uint64) string {
	return fmt.Sprintf("0x%X", v)
}

func writeDoc(code *strings.Builder, doc []string) {
	for _, line := range doc {
		if line == "" {
			code.WriteString("//\n")
			continue
		}
		code.WriteString("// " + line + "\n")
	}
}

func generateTypeDecl(c *analyzer.Container) string {
	var code strings.Builder

	if len(c.Doc) > 0 {
		writeDoc(&code, c.Doc)
	} else {
		code.WriteString(fmt.Sprintf("// %s is a bitfield stored in a %s.\n", c.GoName, c.Type.Name))
	}
	code.WriteString(fmt.Sprintf("type %s struct {\n", c.GoName))
	code.WriteString(fmt.Sprintf("\tbits %s\n", c.Type.Name))
	code.WriteString("}\n\n")

	code.WriteString(fmt.Sprintf("// %s has a bit set for every bit claimed by a field of %s.\n", c.MaskConst, c.GoName))
	code.WriteString(fmt.Sprintf("const %s %s = %s\n\n", c.MaskConst, c.Type.Name, hex(c.DataMask)))

	return code.String()
}

// transformVar names the package variable holding a compiled expression
func transformVar(c *analyzer.Container, f analyzer.Field) string {
	return strings.TrimSuffix(c.MaskConst, "DataMask") + upperFirst(f.Getter) + "Transform"
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var kindIdents = map[xform.Kind]string{
	xform.Bool:    "Bool",
	xform.Uint8:   "Uint8",
	xform.Uint16:  "Uint16",
	xform.Uint32:  "Uint32",
	xform.Uint64:  "Uint64",
	xform.Uint:    "Uint",
	xform.Int8:    "Int8",
	xform.Int16:   "Int16",
	xform.Int32:   "Int32",
	xform.Int64:   "Int64",
	xform.Int:     "Int",
	xform.Float32: "Float32",
	xform.Float64: "Float64",
	xform.String:  "String",
}

func kindIdent(k xform.Kind) string {
	return "xform." + kindIdents[k]
}

func generateTransformVars(c *analyzer.Container) string {
	var vars []string
	for _, f := range c.Fields {
		if f.Transform == nil || f.Transform.Kind != parser.ExprTransform {
			continue
		}
		vars = append(vars, fmt.Sprintf("\t%s = xform.MustCompile(%q, %s, %s, %s)\n",
			transformVar(c, f), f.Transform.Param, strconv.Quote(f.Transform.Expr),
			kindIdent(f.Type.Kind), kindIdent(f.Output.Kind)))
	}
	if len(vars) == 0 {
		return ""
	}

	var code strings.Builder
	code.WriteString("var (\n")
	for _, v := range vars {
		code.WriteString(v)
	}
	code.WriteString(")\n\n")
	return code.String()
}

func generateWholeValue(c *analyzer.Container) string {
	var code strings.Builder
	t, u, m := c.GoName, c.Type.Name, c.MaskConst

	code.WriteString(fmt.Sprintf("// %s returns a %s holding data with unclaimed bits cleared.\n", c.Constructor, t))
	code.WriteString(fmt.Sprintf("func %s(data %s) %s {\n", c.Constructor, u, t))
	code.WriteString(fmt.Sprintf("\treturn %s{bits: data & %s}\n", t, m))
	code.WriteString("}\n\n")

	code.WriteString(fmt.Sprintf("// %s returns the bits of %s claimed by fields.\n", c.Methods.DataMask, t))
	code.WriteString(fmt.Sprintf("func (%s) %s() %s {\n", t, c.Methods.DataMask, u))
	code.WriteString(fmt.Sprintf("\treturn %s\n", m))
	code.WriteString("}\n\n")

	code.WriteString(fmt.Sprintf("// %s returns the raw value.\n", c.Methods.Data))
	code.WriteString(fmt.Sprintf("func (b %s) %s() %s {\n", t, c.Methods.Data, u))
	code.WriteString("\treturn b.bits\n")
	code.WriteString("}\n\n")

	code.WriteString(fmt.Sprintf("// %s replaces the raw value. Unclaimed bits are cleared.\n", c.Methods.SetData))
	code.WriteString(fmt.Sprintf("func (b *%s) %s(data %s) {\n", t, c.Methods.SetData, u))
	code.WriteString(fmt.Sprintf("\tb.bits = data & %s\n", m))
	code.WriteString("}\n\n")

	return code.String()
}

func generateByteAccess(c *analyzer.Container) string {
	var code strings.Builder
	t, u, m, n := c.GoName, c.Type.Name, c.MaskConst, c.ByteCount

	check := fmt.Sprintf("\tif index < 0 || index >= %d {\n"+
		"\t\tpanic(fmt.Sprintf(\"%s: byte index %%d out of range [0, %d)\", index))\n"+
		"\t}\n", n, t, n)

	code.WriteString(fmt.Sprintf("// %s returns byte index of the raw value, least significant first.\n", c.Methods.Byte))
	code.WriteString(fmt.Sprintf("func (b %s) %s(index int) uint8 {\n", t, c.Methods.Byte))
	code.WriteString(check)
	code.WriteString("\treturn uint8(b.bits >> (8 * index))\n")
	code.WriteString("}\n\n")

	code.WriteString(fmt.Sprintf("// %s replaces the claimed bits of byte index.\n", c.Methods.SetByte))
	code.WriteString(fmt.Sprintf("func (b *%s) %s(index int, value uint8) {\n", t, c.Methods.SetByte))
	code.WriteString(check)
	code.WriteString("\tshift := 8 * index\n")
	code.WriteString(fmt.Sprintf("\tmask := uint8(%s >> shift)\n", m))
	if u == "uint8" {
		code.WriteString("\tb.bits = b.bits&^(mask<<shift) | (value&mask)<<shift\n")
	} else {
		code.WriteString(fmt.Sprintf("\tb.bits = b.bits&^(%s(mask)<<shift) | %s(value&mask)<<shift\n", u, u))
	}
	code.WriteString("}\n\n")

	return code.String()
}

// extract returns the expression reading f from b.bits, before conversion
func extract(f analyzer.Field) string {
	if f.Shift == 0 {
		return fmt.Sprintf("b.bits & %s", hex(f.Mask))
	}
	return fmt.Sprintf("(b.bits >> %d) & %s", f.Shift, hex(f.Mask))
}

// raw returns the expression of f as its element type
func raw(f analyzer.Field) string {
	if f.Type.IsBool() {
		return fmt.Sprintf("b.bits&%s != 0", hex(f.Range.PosMask()))
	}
	return fmt.Sprintf("%s(%s)", f.Type.Name, extract(f))
}

// shifted returns "x<<n", or x alone when n is zero
func shifted(x string, n int) string {
	if n == 0 {
		return x
	}
	return fmt.Sprintf("%s<<%d", x, n)
}

func generateGetter(c *analyzer.Container, f analyzer.Field) string {
	var code strings.Builder

	if len(f.Doc) > 0 {
		writeDoc(&code, f.Doc)
	} else {
		code.WriteString(fmt.Sprintf("// %s returns bits %s.\n", f.Getter, f.Range))
	}
	code.WriteString(fmt.Sprintf("func (b %s) %s() %s {\n", c.GoName, f.Getter, f.Output.Name))

	switch {
	case f.Transform == nil:
		code.WriteString(fmt.Sprintf("\treturn %s\n", raw(f)))

	case f.Transform.Kind == parser.FuncTransform:
		code.WriteString(fmt.Sprintf("\tv := %s\n", raw(f)))
		code.WriteString(fmt.Sprintf("\treturn %s(v)\n", f.Transform.Func))

	default:
		code.WriteString(fmt.Sprintf("\tv := %s\n", raw(f)))
		apply := fmt.Sprintf("xform.Apply[%s](%s, v)", f.Output.Kind, transformVar(c, f))
		if f.Output.IsNamed() {
			apply = fmt.Sprintf("%s(%s)", f.Output.Name, apply)
		}
		code.WriteString(fmt.Sprintf("\treturn %s\n", apply))
	}

	code.WriteString("}\n\n")
	return code.String()
}

func generateSetter(c *analyzer.Container, f analyzer.Field) string {
	var code strings.Builder
	u := c.Type.Name
	pos := hex(f.Range.PosMask())

	if f.Type.IsBool() {
		code.WriteString(fmt.Sprintf("// %s sets bit %d.\n", f.Setter, f.Shift))
	} else {
		code.WriteString(fmt.Sprintf("// %s stores the low %d bits of v in bits %s.\n", f.Setter, f.Range.Len(), f.Range))
	}
	code.WriteString(fmt.Sprintf("func (b *%s) %s(v %s) {\n", c.GoName, f.Setter, f.Type.Name))

	if f.Type.IsBool() {
		code.WriteString(fmt.Sprintf("\tvar x %s\n", u))
		code.WriteString("\tif v {\n")
		code.WriteString("\t\tx = 1\n")
		code.WriteString("\t}\n")
		code.WriteString(fmt.Sprintf("\tb.bits = b.bits&^%s | %s\n", pos, shifted("x", f.Shift)))
	} else {
		v := shifted(fmt.Sprintf("%s(v)", u), f.Shift)
		code.WriteString(fmt.Sprintf("\tb.bits = b.bits&^%s | %s&%s\n", pos, v, pos))
	}

	code.WriteString("}\n\n")
	return code.String()
}

func generateString(c *analyzer.Container) string {
	var code strings.Builder

	code.WriteString(fmt.Sprintf("func (b %s) String() string {\n", c.GoName))
	if len(c.Fields) == 0 {
		code.WriteString(fmt.Sprintf("\treturn %q\n", c.GoName+"{}"))
		code.WriteString("}\n")
		return code.String()
	}

	var verbs, args []string
	for _, f := range c.Fields {
		verbs = append(verbs, f.Name+": %v")
		args = append(args, "b."+f.Getter+"()")
	}
	layout := fmt.Sprintf("%s{%s}", c.GoName, strings.Join(verbs, ", "))
	code.WriteString(fmt.Sprintf("\treturn fmt.Sprintf(%q, %s)\n", layout, strings.Join(args, ", ")))
	code.WriteString("}\n")

	return code.String()
}
