package ledger

import (
	"github.com/gogo/protobuf/proto"
)

type depositCodec Deposit

func (m *depositCodec) Reset()         { *m = depositCodec{} }
func (m *depositCodec) String() string { return proto.CompactTextString(m) }
func (*depositCodec) ProtoMessage()    {}

func (d *Deposit) Marshal() ([]byte, error)   { return proto.Marshal((*depositCodec)(d)) }
func (d *Deposit) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*depositCodec)(d)) }

type eventCodec Event

func (m *eventCodec) Reset()         { *m = eventCodec{} }
func (m *eventCodec) String() string { return proto.CompactTextString(m) }
func (*eventCodec) ProtoMessage()    {}

func (e *Event) Marshal() ([]byte, error)   { return proto.Marshal((*eventCodec)(e)) }
func (e *Event) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*eventCodec)(e)) }

type depositMsgCodec DepositMsg

func (m *depositMsgCodec) Reset()         { *m = depositMsgCodec{} }
func (m *depositMsgCodec) String() string { return proto.CompactTextString(m) }
func (*depositMsgCodec) ProtoMessage()    {}

func (m *DepositMsg) Marshal() ([]byte, error)   { return proto.Marshal((*depositMsgCodec)(m)) }
func (m *DepositMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*depositMsgCodec)(m)) }

type withdrawMsgCodec WithdrawMsg

func (m *withdrawMsgCodec) Reset()         { *m = withdrawMsgCodec{} }
func (m *withdrawMsgCodec) String() string { return proto.CompactTextString(m) }
func (*withdrawMsgCodec) ProtoMessage()    {}

func (m *WithdrawMsg) Marshal() ([]byte, error)   { return proto.Marshal((*withdrawMsgCodec)(m)) }
func (m *WithdrawMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*withdrawMsgCodec)(m)) }
