package cash

import (
	"github.com/gogo/protobuf/proto"
)

type balanceCodec Balance

func (m *balanceCodec) Reset()         { *m = balanceCodec{} }
func (m *balanceCodec) String() string { return proto.CompactTextString(m) }
func (*balanceCodec) ProtoMessage()    {}

func (b *Balance) Marshal() ([]byte, error)   { return proto.Marshal((*balanceCodec)(b)) }
func (b *Balance) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*balanceCodec)(b)) }

type assetInfoCodec AssetInfo

func (m *assetInfoCodec) Reset()         { *m = assetInfoCodec{} }
func (m *assetInfoCodec) String() string { return proto.CompactTextString(m) }
func (*assetInfoCodec) ProtoMessage()    {}

func (a *AssetInfo) Marshal() ([]byte, error)   { return proto.Marshal((*assetInfoCodec)(a)) }
func (a *AssetInfo) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*assetInfoCodec)(a)) }

type configurationCodec Configuration

func (m *configurationCodec) Reset()         { *m = configurationCodec{} }
func (m *configurationCodec) String() string { return proto.CompactTextString(m) }
func (*configurationCodec) ProtoMessage()    {}

func (c *Configuration) Marshal() ([]byte, error) {
	return proto.Marshal((*configurationCodec)(c))
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*configurationCodec)(c))
}

type sendMsgCodec SendMsg

func (m *sendMsgCodec) Reset()         { *m = sendMsgCodec{} }
func (m *sendMsgCodec) String() string { return proto.CompactTextString(m) }
func (*sendMsgCodec) ProtoMessage()    {}

func (m *SendMsg) Marshal() ([]byte, error)   { return proto.Marshal((*sendMsgCodec)(m)) }
func (m *SendMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*sendMsgCodec)(m)) }

// updateConfigurationMsgCodec carries the patch in its serialized form,
// which is wire compatible with an embedded Configuration message.
type updateConfigurationMsgCodec struct {
	Patch []byte `protobuf:"bytes,1,opt,name=patch,proto3"`
}

func (m *updateConfigurationMsgCodec) Reset()         { *m = updateConfigurationMsgCodec{} }
func (m *updateConfigurationMsgCodec) String() string { return proto.CompactTextString(m) }
func (*updateConfigurationMsgCodec) ProtoMessage()    {}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	var w updateConfigurationMsgCodec
	if m.Patch != nil {
		raw, err := m.Patch.Marshal()
		if err != nil {
			return nil, err
		}
		w.Patch = raw
	}
	return proto.Marshal(&w)
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	var w updateConfigurationMsgCodec
	if err := proto.Unmarshal(raw, &w); err != nil {
		return err
	}
	m.Patch = nil
	if len(w.Patch) != 0 {
		var c Configuration
		if err := c.Unmarshal(w.Patch); err != nil {
			return err
		}
		m.Patch = &c
	}
	return nil
}
