package orm

import (
	"github.com/gogo/protobuf/proto"
)

// multiRefCodec is the wire representation of a MultiRef. It does not carry
// the Marshal method so that the proto package serializes it using the
// struct tags.
type multiRefCodec MultiRef

func (m *multiRefCodec) Reset()         { *m = multiRefCodec{} }
func (m *multiRefCodec) String() string { return proto.CompactTextString(m) }
func (*multiRefCodec) ProtoMessage()    {}

// Marshal serializes the reference set.
func (m *MultiRef) Marshal() ([]byte, error) {
	return proto.Marshal((*multiRefCodec)(m))
}

// Unmarshal loads the reference set from its serialized form.
func (m *MultiRef) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*multiRefCodec)(m))
}
