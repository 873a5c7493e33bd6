package storage

import (
	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/quadrantdb/quadrant/common"
	"github.com/quadrantdb/quadrant/errors"
)

const (
	metaKeyPrefix byte = 0x00
	dataKeyPrefix byte = 0x01
)

// TableDescriptor is the stored metadata of one physical table. Tag carries
// the owning deployment's metadata prefix and guards against deleting another
// deployment's table of the same name.
type TableDescriptor struct {
	Name     string
	Families []string
	UUID     string
	Tag      string
	ShardID  uint64
}

func (d *TableDescriptor) serialize(buff []byte) []byte {
	buff = common.AppendStringToBufferLE(buff, d.Name)
	buff = common.AppendUint32ToBufferLE(buff, uint32(len(d.Families)))
	for _, family := range d.Families {
		buff = common.AppendStringToBufferLE(buff, family)
	}
	buff = common.AppendStringToBufferLE(buff, d.UUID)
	buff = common.AppendStringToBufferLE(buff, d.Tag)
	buff = common.AppendUint64ToBufferLE(buff, d.ShardID)
	return buff
}

func (d *TableDescriptor) deserialize(buff []byte) {
	offset := 0
	d.Name, offset = common.ReadStringFromBufferLE(buff, offset)
	var numFamilies uint32
	numFamilies, offset = common.ReadUint32FromBufferLE(buff, offset)
	d.Families = make([]string, numFamilies)
	for i := range d.Families {
		d.Families[i], offset = common.ReadStringFromBufferLE(buff, offset)
	}
	d.UUID, offset = common.ReadStringFromBufferLE(buff, offset)
	d.Tag, offset = common.ReadStringFromBufferLE(buff, offset)
	d.ShardID, _ = common.ReadUint64FromBufferLE(buff, offset)
}

type KVPair struct {
	Key   []byte
	Value []byte
}

func (c *Connection) TableExists(tableName string) (bool, error) {
	exists := false
	err := c.withRetry("table exists check for '"+tableName+"'", func() error {
		_, closer, err := c.db.Get(metaKey(tableName))
		if err == pebble.ErrNotFound {
			exists = false
			return nil
		}
		if err != nil {
			return errors.WithStack(err)
		}
		exists = true
		return errors.WithStack(closer.Close())
	})
	return exists, err
}

// CreateTableIfNeeded creates the table with the given column families,
// placing it on a shard and tagging it with a fresh UUID and the deployment's
// metadata prefix. Creating an already existing table is a no-op.
func (c *Connection) CreateTableIfNeeded(tableName string, families ...string) error {
	exists, err := c.TableExists(tableName)
	if err != nil {
		return err
	}
	if exists {
		log.Debugf("table '%s' already exists", tableName)
		return nil
	}
	log.Debugf("creating table '%s'", tableName)
	desc := &TableDescriptor{
		Name:     tableName,
		Families: families,
		UUID:     uuid.New().String(),
		Tag:      c.cnf.MetadataPrefix,
		ShardID:  common.CalculateShard([]byte(tableName), c.cnf.NumShards),
	}
	err = c.withRetry("create table '"+tableName+"'", func() error {
		return errors.WithStack(c.db.Set(metaKey(tableName), desc.serialize(nil), pebble.Sync))
	})
	if err != nil {
		return err
	}
	log.Debugf("table '%s' created", tableName)
	return nil
}

// DropTable deletes the table descriptor and all the table's row data.
// Dropping a non existent table is a no-op.
func (c *Connection) DropTable(tableName string) error {
	exists, err := c.TableExists(tableName)
	if err != nil {
		return err
	}
	if !exists {
		log.Debugf("table '%s' does not exist", tableName)
		return nil
	}
	log.Debugf("deleting table '%s'", tableName)
	err = c.withRetry("drop table '"+tableName+"'", func() error {
		start, end := dataKeyRange(tableName)
		if err := c.db.DeleteRange(start, end, pebble.Sync); err != nil {
			return errors.WithStack(err)
		}
		return errors.WithStack(c.db.Delete(metaKey(tableName), pebble.Sync))
	})
	if err != nil {
		return err
	}
	log.Debugf("table '%s' deleted", tableName)
	return nil
}

// GetTableDescriptor returns nil if the table does not exist.
func (c *Connection) GetTableDescriptor(tableName string) (*TableDescriptor, error) {
	var desc *TableDescriptor
	err := c.withRetry("get descriptor for table '"+tableName+"'", func() error {
		value, closer, err := c.db.Get(metaKey(tableName))
		if err == pebble.ErrNotFound {
			desc = nil
			return nil
		}
		if err != nil {
			return errors.WithStack(err)
		}
		desc = &TableDescriptor{}
		desc.deserialize(value)
		return errors.WithStack(closer.Close())
	})
	return desc, err
}

// Put writes one row of a table.
func (c *Connection) Put(tableName string, key []byte, value []byte) error {
	return c.withRetry("put into table '"+tableName+"'", func() error {
		return errors.WithStack(c.db.Set(dataKey(tableName, key), value, pebble.NoSync))
	})
}

// ScanTable returns all rows of a table in key order.
func (c *Connection) ScanTable(tableName string) ([]KVPair, error) {
	var pairs []KVPair
	err := c.withRetry("scan table '"+tableName+"'", func() error {
		pairs = nil
		start, end := dataKeyRange(tableName)
		iter := c.db.NewIter(&pebble.IterOptions{LowerBound: start, UpperBound: end})
		for iter.First(); iter.Valid(); iter.Next() {
			k := make([]byte, len(iter.Key())-len(start))
			copy(k, iter.Key()[len(start):])
			v := make([]byte, len(iter.Value()))
			copy(v, iter.Value())
			pairs = append(pairs, KVPair{Key: k, Value: v})
		}
		return errors.WithStack(iter.Close())
	})
	return pairs, err
}

func metaKey(tableName string) []byte {
	key := []byte{metaKeyPrefix}
	return append(key, tableName...)
}

func dataKey(tableName string, key []byte) []byte {
	buff := []byte{dataKeyPrefix}
	buff = common.AppendStringToBufferLE(buff, tableName)
	return append(buff, key...)
}

func dataKeyRange(tableName string) ([]byte, []byte) {
	start := []byte{dataKeyPrefix}
	start = common.AppendStringToBufferLE(start, tableName)
	end := make([]byte, len(start))
	copy(end, start)
	// the length prefixed name cannot be a prefix of another table's keys so
	// bumping the last byte bounds the range
	end[len(end)-1]++
	return start, end
}
