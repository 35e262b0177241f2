package gen

import (
	"context"
	"fmt"
	"go/token"
	"path/filepath"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/boxql/compiler/load"
)

// Import paths referenced by generated code.
const (
	sqlPkg       = "github.com/syssam/boxql/dialect/sql"
	changesetPkg = "github.com/syssam/boxql/dialect/sql/changeset"
	uuidPkg      = "github.com/google/uuid"
)

// columnType describes how a schema type maps onto the sql package.
type columnType struct {
	ctor   string                // Column constructor suffix, e.g. "Text" for TextColumn
	goType func() *jen.Statement // Go type of bound values
}

var columnTypes = map[string]columnType{
	"bool":      {ctor: "Bool", goType: jen.Bool},
	"integer":   {ctor: "Integer", goType: jen.Int64},
	"bigint":    {ctor: "BigInt", goType: jen.Int64},
	"float":     {ctor: "Float", goType: jen.Float64},
	"text":      {ctor: "Text", goType: jen.String},
	"timestamp": {ctor: "Timestamp", goType: func() *jen.Statement { return jen.Qual("time", "Time") }},
	"uuid":      {ctor: "UUID", goType: func() *jen.Statement { return jen.Qual(uuidPkg, "UUID") }},
}

// Generator renders the Go declarations of a schema: one file per table
// holding the table, its columns and the records mapped onto it.
//
// Example usage:
//
//	cfg, _ := gen.NewConfig(gen.WithTarget("./models"))
//	s, _ := load.Load("schema.yaml")
//	if err := gen.NewGenerator(cfg, s).Generate(ctx); err != nil {
//	    log.Fatal(err)
//	}
type Generator struct {
	cfg    *Config
	schema *load.Schema
}

// NewGenerator creates a generator of s configured by cfg.
func NewGenerator(cfg *Config, s *load.Schema) *Generator {
	return &Generator{cfg: cfg, schema: s}
}

// Generate is a shorthand for NewGenerator(cfg, s).Generate(ctx).
func Generate(ctx context.Context, cfg *Config, s *load.Schema) error {
	return NewGenerator(cfg, s).Generate(ctx)
}

// Generate writes one file per table into the target directory. Files are
// rendered in parallel, bounded by the configured workers.
func (g *Generator) Generate(ctx context.Context) error {
	if g.cfg == nil || g.cfg.Target == "" {
		return NewConfigError("Target", nil, "missing target directory in config")
	}
	pkg, err := g.pkg()
	if err != nil {
		return err
	}
	if err := g.checkNames(); err != nil {
		return err
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(g.cfg.Workers, 1))
	for _, t := range g.schema.Tables {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return g.writeFile(g.tableFile(pkg, t), filename(t))
			}
		})
	}
	return eg.Wait()
}

// Files returns the names of the files Generate writes, in table order.
func (g *Generator) Files() []string {
	names := make([]string, len(g.schema.Tables))
	for i, t := range g.schema.Tables {
		names[i] = filename(t)
	}
	return names
}

func filename(t *load.Table) string {
	return t.Name + ".go"
}

// pkg resolves the generated package name.
func (g *Generator) pkg() (string, error) {
	switch {
	case g.cfg.Package != "":
		return g.cfg.Package, nil
	case g.schema.Package != "":
		return g.schema.Package, nil
	}
	base := filepath.Base(filepath.Clean(g.cfg.Target))
	if !token.IsIdentifier(base) {
		return "", NewConfigError("Package", base, "no package in config or schema, and the target directory is not a Go identifier")
	}
	return base, nil
}

// checkNames rejects schemas whose generated identifiers collide.
func (g *Generator) checkNames() error {
	owners := make(map[string]string)
	declare := func(ident, table, owner string) error {
		if token.IsKeyword(ident) {
			return NewSchemaError(table, owner, fmt.Sprintf("generated identifier %q is a Go keyword", ident), nil)
		}
		if prev, ok := owners[ident]; ok {
			return NewSchemaError(table, owner, fmt.Sprintf("generated identifier %q collides with %s", ident, prev), nil)
		}
		owners[ident] = table + "." + owner
		return nil
	}
	for _, t := range g.schema.Tables {
		if err := declare(tableVar(t), t.Name, "table"); err != nil {
			return err
		}
		if err := declare(markerType(t), t.Name, "marker"); err != nil {
			return err
		}
		for _, c := range t.Columns {
			if err := declare(columnVar(t, c), t.Name, c.Name); err != nil {
				return err
			}
		}
	}
	for _, r := range g.schema.Records {
		if err := declare(r.Name, r.Table, r.Name); err != nil {
			return err
		}
	}
	return nil
}

// Identifier naming.

func tableVar(t *load.Table) string { return pascal(t.Name) }

func markerType(t *load.Table) string { return camel(t.Name) }

func columnVar(t *load.Table, c *load.Column) string {
	return pascal(singular(t.Name)) + pascal(c.Name)
}

func fieldName(c *load.Column) string { return pascal(c.Name) }

// tableFile renders the declarations of t.
func (g *Generator) tableFile(pkg string, t *load.Table) *jen.File {
	f := g.newFile(pkg)
	marker := markerType(t)

	f.Commentf("%s identifies the %s table at compile time.", marker, t.Name)
	f.Type().Id(marker).Struct()
	f.Line()

	doc := fmt.Sprintf("%s declares the %s table.", tableVar(t), label(t.Name))
	if t.Comment != "" {
		doc += " " + t.Comment
	}
	f.Comment(doc)
	f.Var().Id(tableVar(t)).Op("=").Qual(sqlPkg, "NewTable").Types(jen.Id(marker)).Call(jen.Lit(t.Name))
	f.Line()

	f.Commentf("Columns of the %s table.", t.Name)
	f.Var().DefsFunc(func(grp *jen.Group) {
		for _, c := range t.Columns {
			args := []jen.Code{jen.Id(tableVar(t)), jen.Lit(c.Name)}
			if c.PrimaryKey {
				args = append(args, jen.Qual(sqlPkg, "PrimaryKey").Call())
			}
			grp.Id(columnVar(t, c)).Op("=").Qual(sqlPkg, constructor(c)).Call(args...)
		}
	})
	for _, r := range g.schema.RecordsOf(t) {
		f.Line()
		g.record(f, t, r)
	}
	return f
}

// constructor returns the name of the sql column constructor for c.
func constructor(c *load.Column) string {
	name := columnTypes[c.Type].ctor + "Column"
	if c.Nullable {
		return "Nullable" + name
	}
	return name
}

// fieldKind selects the changeset constructor of a record field.
type fieldKind int

const (
	required fieldKind = iota // value, always assigned
	optional                  // pointer, nil leaves the column untouched
	nullable                  // pointer, nil assigns NULL
)

var kindFuncs = [...]string{required: "Required", optional: "Optional", nullable: "Nullable"}

// recordField is a changeset field of a record resolved against its column.
type recordField struct {
	column *load.Column
	kind   fieldKind
}

func recordFields(t *load.Table, r *load.Record) []recordField {
	fields := r.ChangesetFields(t)
	rfs := make([]recordField, len(fields))
	for i, fd := range fields {
		c, _ := t.Column(fd.Column)
		rfs[i].column = c
		switch {
		case fd.IsOptional(c):
			rfs[i].kind = optional
		case c.Nullable:
			rfs[i].kind = nullable
		}
	}
	return rfs
}

// record renders the struct of r, its AsChangeset method and, when the
// table has a primary key, its PrimaryKey method. Struct fields and
// changeset entries share the order of the record's fields, after the
// primary key.
func (g *Generator) record(f *jen.File, t *load.Table, r *load.Record) {
	pk, hasPK := t.PrimaryKey()
	fields := recordFields(t, r)

	f.Commentf("%s maps a row of the %s table.", r.Name, t.Name)
	f.Type().Id(r.Name).StructFunc(func(grp *jen.Group) {
		if hasPK {
			grp.Id(fieldName(pk)).Add(columnTypes[pk.Type].goType()).Tag(map[string]string{"sql": pk.Name})
		}
		for _, fd := range fields {
			typ := columnTypes[fd.column.Type].goType()
			if fd.kind != required {
				typ = jen.Op("*").Add(typ)
			}
			grp.Id(fieldName(fd.column)).Add(typ).Tag(map[string]string{"sql": fd.column.Name})
		}
	})
	f.Line()

	rcv := receiver(r.Name)
	policy := jen.Qual(changesetPkg, "Policy").Values()
	if r.TreatNoneAsNull {
		policy = jen.Qual(changesetPkg, "Policy").Values(jen.Id("TreatNoneAsNull").Op(":").True())
	}
	f.Comment("AsChangeset returns the columns to write, in field order.")
	f.Func().Params(jen.Id(rcv).Op("*").Id(r.Name)).Id("AsChangeset").Params().
		Qual(changesetPkg, "Changeset").Types(jen.Id(markerType(t))).
		Block(jen.Return(jen.Qual(changesetPkg, "Derive").Types(jen.Id(markerType(t))).CustomFunc(jen.Options{
			Open: "(", Close: ")", Separator: ",", Multi: true,
		}, func(grp *jen.Group) {
			grp.Add(policy)
			for _, fd := range fields {
				grp.Qual(changesetPkg, kindFuncs[fd.kind]).Call(jen.Id(columnVar(t, fd.column)), jen.Id(rcv).Dot(fieldName(fd.column)))
			}
		})))
	if hasPK {
		f.Line()
		f.Comment("PrimaryKey returns the value identifying the row.")
		f.Func().Params(jen.Id(rcv).Op("*").Id(r.Name)).Id("PrimaryKey").Params().
			Add(columnTypes[pk.Type].goType()).
			Block(jen.Return(jen.Id(rcv).Dot(fieldName(pk))))
	}
}

// newFile creates a new jen.File with the configured header.
func (g *Generator) newFile(pkg string) *jen.File {
	f := jen.NewFile(pkg)
	if g.cfg.Header != "" {
		f.HeaderComment(g.cfg.Header)
	}
	f.ImportName(sqlPkg, "sql")
	f.ImportName(changesetPkg, "changeset")
	f.ImportName(uuidPkg, "uuid")
	return f
}
