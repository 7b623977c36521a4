package crypto

import (
	"github.com/gogo/protobuf/proto"
)

type publicKeyCodec PublicKey

func (m *publicKeyCodec) Reset()         { *m = publicKeyCodec{} }
func (m *publicKeyCodec) String() string { return proto.CompactTextString(m) }
func (*publicKeyCodec) ProtoMessage()    {}

func (p *PublicKey) Marshal() ([]byte, error) {
	return proto.Marshal((*publicKeyCodec)(p))
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*publicKeyCodec)(p))
}

type privateKeyCodec PrivateKey

func (m *privateKeyCodec) Reset()         { *m = privateKeyCodec{} }
func (m *privateKeyCodec) String() string { return proto.CompactTextString(m) }
func (*privateKeyCodec) ProtoMessage()    {}

func (p *PrivateKey) Marshal() ([]byte, error) {
	return proto.Marshal((*privateKeyCodec)(p))
}

func (p *PrivateKey) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*privateKeyCodec)(p))
}

type signatureCodec Signature

func (m *signatureCodec) Reset()         { *m = signatureCodec{} }
func (m *signatureCodec) String() string { return proto.CompactTextString(m) }
func (*signatureCodec) ProtoMessage()    {}

func (s *Signature) Marshal() ([]byte, error) {
	return proto.Marshal((*signatureCodec)(s))
}

func (s *Signature) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*signatureCodec)(s))
}
