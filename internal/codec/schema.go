// Package codec decodes fixed-layout program accounts.
//
// A schema is an ordered list of fixed-width fields. Accounts start with an 8-byte discriminator
// that is skipped without being checked, fields follow with no padding or length prefixes, and
// anything after the last field is kept as trailing bytes.
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/feral-file/habitat-tracker/internal/domain"
)

// HeaderSize is the length of the account discriminator
const HeaderSize = 8

// Kind is the primitive type of a field
type Kind uint8

const (
	KindBytes Kind = iota
	KindUint8
	KindUint16
	KindUint32
	KindUint64
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindBytes:
		return "bytes"
	case KindUint8:
		return "u8"
	case KindUint16:
		return "u16"
	case KindUint32:
		return "u32"
	case KindUint64:
		return "u64"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// FieldType is a fixed-width field type
type FieldType struct {
	Kind Kind
	Size int
}

// FixedBytes is an opaque byte array of n bytes
func FixedBytes(n int) FieldType {
	return FieldType{Kind: KindBytes, Size: n}
}

var (
	UInt8    = FieldType{Kind: KindUint8, Size: 1}
	UInt16LE = FieldType{Kind: KindUint16, Size: 2}
	UInt32LE = FieldType{Kind: KindUint32, Size: 4}
	UInt64LE = FieldType{Kind: KindUint64, Size: 8}
	PubKey   = FixedBytes(domain.KeySize)
)

// Field is a named field of a schema
type Field struct {
	Name string
	Type FieldType
}

// Schema is the ordered field layout of an account
type Schema struct {
	Name   string
	Fields []Field
}

// Width returns the total width of the fields, excluding the header
func (s Schema) Width() int {
	width := 0
	for _, f := range s.Fields {
		width += f.Type.Size
	}
	return width
}

// Len returns the minimum account length: header plus fields
func (s Schema) Len() int {
	return HeaderSize + s.Width()
}

// Offset returns the account offset of a field, header included
func (s Schema) Offset(name string) (int, error) {
	offset := HeaderSize
	for _, f := range s.Fields {
		if f.Name == name {
			return offset, nil
		}
		offset += f.Type.Size
	}
	return 0, fmt.Errorf("%w: %s has no field %q", domain.ErrSchemaMismatch, s.Name, name)
}

// Value is a decoded field value. Bytes is set for byte arrays, Uint for integers.
type Value struct {
	Field Field
	Bytes []byte
	Uint  uint64
}

// Record is a decoded account in schema order
type Record struct {
	Schema   Schema
	Header   [HeaderSize]byte
	Values   []Value
	Trailing []byte

	index map[string]int
}

// Decode reads every schema field from data.
// It fails with ErrTruncatedBuffer when data is shorter than Len and keeps any extra bytes.
func (s Schema) Decode(data []byte) (*Record, error) {
	if len(data) < s.Len() {
		return nil, fmt.Errorf("%w: %s needs %d bytes, got %d", domain.ErrTruncatedBuffer, s.Name, s.Len(), len(data))
	}

	r := &Record{
		Schema: s,
		Values: make([]Value, 0, len(s.Fields)),
		index:  make(map[string]int, len(s.Fields)),
	}
	copy(r.Header[:], data[:HeaderSize])

	offset := HeaderSize
	for i, f := range s.Fields {
		chunk := data[offset : offset+f.Type.Size]
		v := Value{Field: f}

		switch f.Type.Kind {
		case KindBytes:
			v.Bytes = append([]byte(nil), chunk...)
		case KindUint8:
			v.Uint = uint64(chunk[0])
		case KindUint16:
			v.Uint = uint64(binary.LittleEndian.Uint16(chunk))
		case KindUint32:
			v.Uint = uint64(binary.LittleEndian.Uint32(chunk))
		case KindUint64:
			v.Uint = binary.LittleEndian.Uint64(chunk)
		default:
			return nil, fmt.Errorf("%w: %s.%s has unsupported kind %s", domain.ErrSchemaMismatch, s.Name, f.Name, f.Type.Kind)
		}

		r.Values = append(r.Values, v)
		r.index[f.Name] = i
		offset += f.Type.Size
	}

	if offset < len(data) {
		r.Trailing = append([]byte(nil), data[offset:]...)
	}

	return r, nil
}

// Encode writes the record back to its account layout, header and trailing bytes included
func (s Schema) Encode(r *Record) ([]byte, error) {
	if len(r.Values) != len(s.Fields) {
		return nil, fmt.Errorf("%w: %s has %d fields, record has %d", domain.ErrSchemaMismatch, s.Name, len(s.Fields), len(r.Values))
	}

	buf := make([]byte, s.Len(), s.Len()+len(r.Trailing))
	copy(buf, r.Header[:])

	offset := HeaderSize
	for i, f := range s.Fields {
		v := r.Values[i]
		if v.Field != f {
			return nil, fmt.Errorf("%w: %s field %d is %q, record has %q", domain.ErrSchemaMismatch, s.Name, i, f.Name, v.Field.Name)
		}

		chunk := buf[offset : offset+f.Type.Size]
		switch f.Type.Kind {
		case KindBytes:
			if len(v.Bytes) != f.Type.Size {
				return nil, fmt.Errorf("%w: %s.%s must be %d bytes, got %d", domain.ErrSchemaMismatch, s.Name, f.Name, f.Type.Size, len(v.Bytes))
			}
			copy(chunk, v.Bytes)
		case KindUint8:
			if v.Uint > 0xff {
				return nil, overflowError(s, f, v.Uint)
			}
			chunk[0] = byte(v.Uint)
		case KindUint16:
			if v.Uint > 0xffff {
				return nil, overflowError(s, f, v.Uint)
			}
			binary.LittleEndian.PutUint16(chunk, uint16(v.Uint))
		case KindUint32:
			if v.Uint > 0xffffffff {
				return nil, overflowError(s, f, v.Uint)
			}
			binary.LittleEndian.PutUint32(chunk, uint32(v.Uint))
		case KindUint64:
			binary.LittleEndian.PutUint64(chunk, v.Uint)
		default:
			return nil, fmt.Errorf("%w: %s.%s has unsupported kind %s", domain.ErrSchemaMismatch, s.Name, f.Name, f.Type.Kind)
		}
		offset += f.Type.Size
	}

	return append(buf, r.Trailing...), nil
}

func overflowError(s Schema, f Field, v uint64) error {
	return fmt.Errorf("%w: %s.%s value %d overflows %s", domain.ErrSchemaMismatch, s.Name, f.Name, v, f.Type.Kind)
}

// NewRecord builds an empty record for a schema, ready to be filled with Set* and encoded
func NewRecord(s Schema) *Record {
	r := &Record{
		Schema: s,
		Values: make([]Value, len(s.Fields)),
		index:  make(map[string]int, len(s.Fields)),
	}
	for i, f := range s.Fields {
		r.Values[i] = Value{Field: f}
		if f.Type.Kind == KindBytes {
			r.Values[i].Bytes = make([]byte, f.Type.Size)
		}
		r.index[f.Name] = i
	}
	return r
}

func (r *Record) lookup(name string, kind Kind) (*Value, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no field %q", domain.ErrSchemaMismatch, r.Schema.Name, name)
	}
	v := &r.Values[i]
	if v.Field.Type.Kind != kind {
		return nil, fmt.Errorf("%w: %s.%s is %s, not %s", domain.ErrSchemaMismatch, r.Schema.Name, name, v.Field.Type.Kind, kind)
	}
	return v, nil
}

// Key returns a 32-byte field as a key
func (r *Record) Key(name string) (domain.Key, error) {
	v, err := r.lookup(name, KindBytes)
	if err != nil {
		return domain.Key{}, err
	}
	return domain.KeyFromBytes(v.Bytes)
}

// Bytes returns a copy of a byte array field
func (r *Record) Bytes(name string) ([]byte, error) {
	v, err := r.lookup(name, KindBytes)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), v.Bytes...), nil
}

// Uint returns an integer field of the given kind
func (r *Record) Uint(name string, kind Kind) (uint64, error) {
	v, err := r.lookup(name, kind)
	if err != nil {
		return 0, err
	}
	return v.Uint, nil
}

// SetKey sets a 32-byte field
func (r *Record) SetKey(name string, k domain.Key) error {
	v, err := r.lookup(name, KindBytes)
	if err != nil {
		return err
	}
	if v.Field.Type.Size != domain.KeySize {
		return fmt.Errorf("%w: %s.%s is %d bytes, not a key", domain.ErrSchemaMismatch, r.Schema.Name, name, v.Field.Type.Size)
	}
	v.Bytes = k.Bytes()
	return nil
}

// SetUint sets an integer field of the given kind
func (r *Record) SetUint(name string, kind Kind, value uint64) error {
	v, err := r.lookup(name, kind)
	if err != nil {
		return err
	}
	v.Uint = value
	return nil
}
