package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock/errors"
)

// counter is a minimal model used by the tests of this package.
type counter struct {
	Count int64 `protobuf:"varint,1,opt,name=count,proto3" json:"count,omitempty"`
}

type counterCodec counter

func (m *counterCodec) Reset()         { *m = counterCodec{} }
func (m *counterCodec) String() string { return proto.CompactTextString(m) }
func (*counterCodec) ProtoMessage()    {}

func (c *counter) Marshal() ([]byte, error) {
	return proto.Marshal((*counterCodec)(c))
}

func (c *counter) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*counterCodec)(c))
}

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}
