package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock/crypto"
)

// Embedded messages are kept serialized, which is wire compatible with
// the declarations in codec.proto.

type userDataCodec struct {
	Pubkey   []byte `protobuf:"bytes,1,opt,name=pubkey,proto3"`
	Sequence int64  `protobuf:"varint,2,opt,name=sequence,proto3"`
}

func (m *userDataCodec) Reset()         { *m = userDataCodec{} }
func (m *userDataCodec) String() string { return proto.CompactTextString(m) }
func (*userDataCodec) ProtoMessage()    {}

func (u *UserData) Marshal() ([]byte, error) {
	pub, err := marshalPubkey(u.Pubkey)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(&userDataCodec{Pubkey: pub, Sequence: u.Sequence})
}

func (u *UserData) Unmarshal(raw []byte) error {
	var w userDataCodec
	if err := proto.Unmarshal(raw, &w); err != nil {
		return err
	}
	pub, err := unmarshalPubkey(w.Pubkey)
	if err != nil {
		return err
	}
	*u = UserData{Pubkey: pub, Sequence: w.Sequence}
	return nil
}

type stdSignatureCodec struct {
	Sequence  int64  `protobuf:"varint,1,opt,name=sequence,proto3"`
	Pubkey    []byte `protobuf:"bytes,2,opt,name=pubkey,proto3"`
	Signature []byte `protobuf:"bytes,4,opt,name=signature,proto3"`
}

func (m *stdSignatureCodec) Reset()         { *m = stdSignatureCodec{} }
func (m *stdSignatureCodec) String() string { return proto.CompactTextString(m) }
func (*stdSignatureCodec) ProtoMessage()    {}

func (s *StdSignature) Marshal() ([]byte, error) {
	w := stdSignatureCodec{Sequence: s.Sequence}
	var err error
	if w.Pubkey, err = marshalPubkey(s.Pubkey); err != nil {
		return nil, err
	}
	if s.Signature != nil {
		if w.Signature, err = s.Signature.Marshal(); err != nil {
			return nil, err
		}
	}
	return proto.Marshal(&w)
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	var w stdSignatureCodec
	if err := proto.Unmarshal(raw, &w); err != nil {
		return err
	}
	pub, err := unmarshalPubkey(w.Pubkey)
	if err != nil {
		return err
	}
	*s = StdSignature{Sequence: w.Sequence, Pubkey: pub}
	if len(w.Signature) != 0 {
		s.Signature = &crypto.Signature{}
		if err := s.Signature.Unmarshal(w.Signature); err != nil {
			return err
		}
	}
	return nil
}

type bumpSequenceMsgCodec BumpSequenceMsg

func (m *bumpSequenceMsgCodec) Reset()         { *m = bumpSequenceMsgCodec{} }
func (m *bumpSequenceMsgCodec) String() string { return proto.CompactTextString(m) }
func (*bumpSequenceMsgCodec) ProtoMessage()    {}

func (m *BumpSequenceMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*bumpSequenceMsgCodec)(m))
}

func (m *BumpSequenceMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*bumpSequenceMsgCodec)(m))
}

func marshalPubkey(p *crypto.PublicKey) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	return p.Marshal()
}

func unmarshalPubkey(raw []byte) (*crypto.PublicKey, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var p crypto.PublicKey
	if err := p.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &p, nil
}
