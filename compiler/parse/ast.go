package parse

// AST node types for the Prisma model dialect. The grammar is encoded
// in participle struct tags; only the subset needed to build the
// normalized graph is modeled, with datasource/generator blocks and
// unknown attributes tolerated and discarded.

// File is the root node: a sequence of top-level declarations.
type File struct {
	Decls []*Decl `parser:"@@*"`
}

// Decl is one top-level block.
type Decl struct {
	Model  *ModelDecl  `parser:"  @@"`
	Enum   *EnumDecl   `parser:"| @@"`
	Config *ConfigDecl `parser:"| @@"`
}

// ModelDecl is a `model Name { ... }` block.
type ModelDecl struct {
	Name  string       `parser:"'model' @Ident '{'"`
	Items []*ModelItem `parser:"@@* '}'"`
}

// ModelItem is a field declaration or a `@@` block attribute.
type ModelItem struct {
	BlockAttr *BlockAttr `parser:"  @@"`
	Field     *FieldDecl `parser:"| @@"`
}

// FieldDecl is `name Type[]? @attr...`.
type FieldDecl struct {
	Name     string  `parser:"@Ident"`
	Type     string  `parser:"@Ident"`
	List     bool    `parser:"@('[' ']')?"`
	Optional bool    `parser:"@'?'?"`
	Attrs    []*Attr `parser:"@@*"`
}

// Attr is a `@name` or `@name(args)` field attribute. Dotted names
// (native type attributes like @db.VarChar) are captured and ignored.
type Attr struct {
	Name string `parser:"'@' @Ident"`
	Sub  string `parser:"( '.' @Ident )?"`
	Args []*Arg `parser:"( '(' ( @@ ( ',' @@ )* )? ')' )?"`
}

// BlockAttr is a `@@name(args)` model-level attribute.
type BlockAttr struct {
	Name string `parser:"BlockAttr @Ident"`
	Args []*Arg `parser:"( '(' ( @@ ( ',' @@ )* )? ')' )?"`
}

// Arg is an attribute argument, optionally labeled (`fields: [...]`).
type Arg struct {
	Label string `parser:"( @Ident ':' )?"`
	Value *Value `parser:"@@"`
}

// Value is a literal, function call, identifier or list.
type Value struct {
	Func   *FuncCall `parser:"  @@"`
	Str    *string   `parser:"| @String"`
	Number *string   `parser:"| @Number"`
	Ident  *string   `parser:"| @Ident"`
	List   []*Value  `parser:"| '[' ( @@ ( ',' @@ )* )? ']'"`
}

// FuncCall is a default-value function such as now() or autoincrement().
type FuncCall struct {
	Name string   `parser:"@Ident '('"`
	Args []*Value `parser:"( @@ ( ',' @@ )* )? ')'"`
}

// EnumDecl is an `enum Name { ... }` block. Values may carry a @map
// attribute, which is discarded.
type EnumDecl struct {
	Name   string       `parser:"'enum' @Ident '{'"`
	Values []*EnumValue `parser:"@@* '}'"`
}

// EnumValue is one enum member.
type EnumValue struct {
	Name  string  `parser:"@Ident"`
	Attrs []*Attr `parser:"@@*"`
}

// ConfigDecl is a datasource or generator block; parsed for tolerance,
// never consumed by the graph builder.
type ConfigDecl struct {
	Keyword string    `parser:"@('datasource' | 'generator')"`
	Name    string    `parser:"@Ident '{'"`
	Entries []*KVPair `parser:"@@* '}'"`
}

// KVPair is one `key = value` entry of a config block.
type KVPair struct {
	Key   string `parser:"@Ident '='"`
	Value *Value `parser:"@@"`
}
