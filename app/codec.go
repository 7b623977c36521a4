package app

import (
	"github.com/gogo/protobuf/proto"
)

// ResultSet contains a list of keys or values
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

type resultSetCodec ResultSet

func (m *resultSetCodec) Reset()         { *m = resultSetCodec{} }
func (m *resultSetCodec) String() string { return proto.CompactTextString(m) }
func (*resultSetCodec) ProtoMessage()    {}

func (r *ResultSet) Marshal() ([]byte, error)   { return proto.Marshal((*resultSetCodec)(r)) }
func (r *ResultSet) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*resultSetCodec)(r)) }

// Signatures and the message are kept serialized, which is wire compatible
// with the declarations in codec.proto.
type txCodec struct {
	Signatures [][]byte `protobuf:"bytes,1,rep,name=signatures,proto3"`
	MsgPath    string   `protobuf:"bytes,2,opt,name=msg_path,json=msgPath,proto3"`
	Msg        []byte   `protobuf:"bytes,3,opt,name=msg,proto3"`
}

func (m *txCodec) Reset()         { *m = txCodec{} }
func (m *txCodec) String() string { return proto.CompactTextString(m) }
func (*txCodec) ProtoMessage()    {}
