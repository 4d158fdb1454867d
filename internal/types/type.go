// Package types implements the gradual structural type lattice laid over
// the graph: TypeInfo values, a node-type resolver memoized per graph,
// and flow-sensitive truthiness refinement across If branches.
package types

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// processSeed salts every payload hash so two unrelated analyzer runs
// never collide on hash equality by coincidence; only equality *within* one
// process matters; compared hashes never cross a process boundary.
var processSeed = func() uint64 {
	id := uuid.New()
	return binary.BigEndian.Uint64(id[:8])
}()

// BaseType is the lattice's coarse discriminant.
type BaseType uint8

const (
	Unknown BaseType = iota
	Undefined
	Null
	Number
	String
	Boolean
	Object
	Function
	Class
	Promise
	Sum
)

func (bt BaseType) String() string {
	switch bt {
	case Unknown:
		return "unknown"
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Number:
		return "number"
	case String:
		return "string"
	case Boolean:
		return "boolean"
	case Object:
		return "object"
	case Function:
		return "function"
	case Class:
		return "class"
	case Promise:
		return "promise"
	case Sum:
		return "sum"
	default:
		return "unknown"
	}
}

// objectPayload is the shared, reference-counted body of an Object type.
// Sharing keeps TypeInfo values cheap to copy: the struct itself is just a
// base type tag, a hash, and a pointer.
type objectPayload struct {
	props  map[string]TypeInfo
	strict bool
}

// functionPayload is lazily populated the first time Params/Return is read
// off a Function built from an AST definition, rather than at construction.
type functionPayload struct {
	resolved bool
	resolve  func() ([]TypeInfo, TypeInfo, bool) // params, return, variadic
	params   []TypeInfo
	ret      TypeInfo
	variadic bool
}

func (f *functionPayload) ensure() {
	if f.resolved {
		return
	}
	if f.resolve != nil {
		f.params, f.ret, f.variadic = f.resolve()
	}
	f.resolved = true
}

// classPayload mirrors functionPayload's laziness for a class's member map.
type classPayload struct {
	resolved bool
	resolve  func() map[string]TypeInfo
	members  map[string]TypeInfo
	name     string
}

func (c *classPayload) ensure() {
	if c.resolved {
		return
	}
	if c.resolve != nil {
		c.members = c.resolve()
	}
	c.resolved = true
}

// TypeInfo is one node in the lattice. It is a small value type: payloads
// that need sharing (Object/Function/Class) live behind a pointer.
type TypeInfo struct {
	base     BaseType
	hash     uint64
	literal  string // String: the literal value, when known; "" otherwise
	hasLit   bool
	object   *objectPayload
	function *functionPayload
	class    *classPayload
	inner    *TypeInfo // Promise: the resolved value type
	sum      []TypeInfo
}

func (t TypeInfo) Base() BaseType { return t.base }
func (t TypeInfo) Hash() uint64   { return t.hash }

// Literal reports whether this is a String built from a known literal
// value, and returns it.
func (t TypeInfo) Literal() (string, bool) { return t.literal, t.hasLit }

func hashBytes(tag BaseType, extra ...byte) uint64 {
	h := processSeed ^ uint64(tag)*1099511628211
	for _, b := range extra {
		h = (h ^ uint64(b)) * 1099511628211
	}
	return h
}

func hashString(tag BaseType, s string) uint64 {
	h := processSeed ^ uint64(tag)*1099511628211
	for i := 0; i < len(s); i++ {
		h = (h ^ uint64(s[i])) * 1099511628211
	}
	return h
}

func MakeUnknown() TypeInfo   { return TypeInfo{base: Unknown, hash: hashBytes(Unknown)} }
func MakeUndefined() TypeInfo { return TypeInfo{base: Undefined, hash: hashBytes(Undefined)} }
func MakeNull() TypeInfo      { return TypeInfo{base: Null, hash: hashBytes(Null)} }
func MakeNumber() TypeInfo    { return TypeInfo{base: Number, hash: hashBytes(Number)} }
func MakeBoolean() TypeInfo   { return TypeInfo{base: Boolean, hash: hashBytes(Boolean)} }

// MakeString returns the general string type, or — if lit is given — the
// narrower "this exact literal" string type the checker uses for computed
// object keys.
func MakeString(lit ...string) TypeInfo {
	if len(lit) == 0 {
		return TypeInfo{base: String, hash: hashBytes(String)}
	}
	return TypeInfo{base: String, literal: lit[0], hasLit: true, hash: hashString(String, lit[0])}
}

// MakeObject builds a (possibly strict) object type from its property map.
func MakeObject(props map[string]TypeInfo, strict bool) TypeInfo {
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	sort.Strings(names)
	h := processSeed ^ uint64(Object)*1099511628211
	for _, k := range names {
		h = (h ^ hashString(Object, k)) * 1099511628211
		h = (h ^ props[k].hash) * 1099511628211
	}
	if strict {
		h ^= 1
	}
	return TypeInfo{base: Object, hash: h, object: &objectPayload{props: props, strict: strict}}
}

// MakeFunction builds an eagerly-known function type (e.g. a function type
// annotation parsed directly, with no AST body to defer to).
func MakeFunction(params []TypeInfo, ret TypeInfo, variadic bool) TypeInfo {
	h := processSeed ^ uint64(Function)*1099511628211
	for _, p := range params {
		h = (h ^ p.hash) * 1099511628211
	}
	h = (h ^ ret.hash) * 1099511628211
	return TypeInfo{
		base: Function,
		hash: h,
		function: &functionPayload{
			resolved: true,
			params:   params,
			ret:      ret,
			variadic: variadic,
		},
	}
}

// MakeLazyFunction builds a Function type whose params/return/variadic
// bits aren't computed until first read, via resolve.
func MakeLazyFunction(identity uint64, resolve func() ([]TypeInfo, TypeInfo, bool)) TypeInfo {
	return TypeInfo{
		base:     Function,
		hash:     hashBytes(Function, byte(identity), byte(identity>>8), byte(identity>>16), byte(identity>>24)),
		function: &functionPayload{resolve: resolve},
	}
}

// MakeClass builds a lazily-initialized Class type; identity distinguishes
// two classes of the same name (their declaration's AST id, reduced).
func MakeClass(name string, identity uint64, resolve func() map[string]TypeInfo) TypeInfo {
	return TypeInfo{
		base:  Class,
		hash:  hashBytes(Class, byte(identity), byte(identity>>8), byte(identity>>16), byte(identity>>24)),
		class: &classPayload{resolve: resolve, name: name},
	}
}

func MakePromise(inner TypeInfo) TypeInfo {
	return TypeInfo{base: Promise, hash: (processSeed ^ uint64(Promise)*1099511628211 ^ inner.hash), inner: &inner}
}

// MakeSum flattens nested sums and de-duplicates by hash before building
// the union; a sum of one distinct member collapses to that member.
func MakeSum(items []TypeInfo) TypeInfo {
	var flat []TypeInfo
	var seen []uint64
	var add func(t TypeInfo)
	add = func(t TypeInfo) {
		if t.base == Sum {
			for _, m := range t.sum {
				add(m)
			}
			return
		}
		for _, h := range seen {
			if h == t.hash && flat[indexOf(seen, h)].Equal(t) {
				return
			}
		}
		seen = append(seen, t.hash)
		flat = append(flat, t)
	}
	for _, it := range items {
		add(it)
	}
	if len(flat) == 0 {
		return MakeUnknown()
	}
	if len(flat) == 1 {
		return flat[0]
	}
	sort.Slice(flat, func(i, j int) bool { return flat[i].Less(flat[j]) })
	h := processSeed ^ uint64(Sum)*1099511628211
	for _, m := range flat {
		h = (h ^ m.hash) * 1099511628211
	}
	return TypeInfo{base: Sum, hash: h, sum: flat}
}

func indexOf(hs []uint64, h uint64) int {
	for i, x := range hs {
		if x == h {
			return i
		}
	}
	return -1
}

// Params/Return/Variadic force Function lazy initialization.
func (t TypeInfo) Params() []TypeInfo {
	if t.function == nil {
		return nil
	}
	t.function.ensure()
	return t.function.params
}

func (t TypeInfo) Return() TypeInfo {
	if t.function == nil {
		return MakeUnknown()
	}
	t.function.ensure()
	return t.function.ret
}

func (t TypeInfo) Variadic() bool {
	if t.function == nil {
		return false
	}
	t.function.ensure()
	return t.function.variadic
}

// Members forces Class lazy initialization and returns its property map.
func (t TypeInfo) Members() map[string]TypeInfo {
	if t.class == nil {
		return nil
	}
	t.class.ensure()
	return t.class.members
}

func (t TypeInfo) ClassName() string {
	if t.class == nil {
		return ""
	}
	return t.class.name
}

// Property looks up name on an Object type; ok is false when the object is
// strict and name is absent.
func (t TypeInfo) Property(name string) (TypeInfo, bool) {
	if t.object == nil {
		return MakeUnknown(), false
	}
	v, ok := t.object.props[name]
	if ok {
		return v, true
	}
	if t.object.strict {
		return MakeUndefined(), false
	}
	return MakeUnknown(), true
}

func (t TypeInfo) IsStrictObject() bool {
	return t.object != nil && t.object.strict
}

// WithProperty returns a copy of an Object type with name's type updated;
// this is the result type of a StoreNamedProperty.
func (t TypeInfo) WithProperty(name string, val TypeInfo) TypeInfo {
	if t.object == nil {
		return t
	}
	next := make(map[string]TypeInfo, len(t.object.props)+1)
	for k, v := range t.object.props {
		next[k] = v
	}
	next[name] = val
	return MakeObject(next, t.object.strict)
}

// Inner returns a Promise's resolved value type.
func (t TypeInfo) Inner() TypeInfo {
	if t.inner == nil {
		return t
	}
	return *t.inner
}

// Members of a Sum.
func (t TypeInfo) SumMembers() []TypeInfo { return t.sum }

// Equal is hash-first structural equality.
func (t TypeInfo) Equal(o TypeInfo) bool {
	if t.hash != o.hash || t.base != o.base {
		return false
	}
	switch t.base {
	case String:
		return t.hasLit == o.hasLit && t.literal == o.literal
	case Sum:
		if len(t.sum) != len(o.sum) {
			return false
		}
		for i := range t.sum {
			if !t.sum[i].Equal(o.sum[i]) {
				return false
			}
		}
		return true
	case Promise:
		return t.Inner().Equal(o.Inner())
	default:
		return true
	}
}

// Less orders by (baseType, hash), the lattice's canonical order (used to
// keep Sum member lists deterministic).
func (t TypeInfo) Less(o TypeInfo) bool {
	if t.base != o.base {
		return t.base < o.base
	}
	return t.hash < o.hash
}

func (t TypeInfo) String() string {
	switch t.base {
	case String:
		if t.hasLit {
			return fmt.Sprintf("string(%q)", t.literal)
		}
		return "string"
	case Promise:
		return fmt.Sprintf("Promise<%s>", t.Inner())
	case Object:
		if t.object == nil {
			return "object"
		}
		names := make([]string, 0, len(t.object.props))
		for k := range t.object.props {
			names = append(names, k)
		}
		sort.Strings(names)
		return fmt.Sprintf("{%s}", strings.Join(names, ", "))
	case Class:
		if t.class != nil && t.class.name != "" {
			return t.class.name
		}
		return "class"
	case Sum:
		parts := make([]string, len(t.sum))
		for i, m := range t.sum {
			parts[i] = m.String()
		}
		return strings.Join(parts, " | ")
	default:
		return t.base.String()
	}
}
