package qdcsim

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"qdc-go/drivers/qdc"
)

const bucketPrefix = "enc"

// Store persists simulated register windows in a bbolt database, one bucket
// per instance, one key per register offset.
type Store struct {
	DB *bbolt.DB
}

// OpenStore opens or creates the database at path. It fails if another
// process holds it for more than a second.
func OpenStore(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func (st *Store) Close() error { return st.DB.Close() }

func bucketName(instance uint8) []byte {
	return []byte(bucketPrefix + strconv.Itoa(int(instance)))
}

// Load returns a simulator holding the saved registers of instance, or a
// zeroed one if nothing was saved yet.
func (st *Store) Load(instance uint8) (*Sim, error) {
	var regs [qdc.RegCount]uint16
	if err := st.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName(instance))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			if len(k) != 1 || len(v) != 2 {
				return fmt.Errorf("enc%d: malformed register entry %x", instance, k)
			}
			r := qdc.Reg(k[0])
			if r.Index() >= qdc.RegCount {
				return fmt.Errorf("enc%d: register offset %#x out of range", instance, k[0])
			}
			regs[r.Index()] = binary.BigEndian.Uint16(v)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	s := New()
	s.SetRegisters(regs)
	return s, nil
}

// Save writes the whole register window of s under instance.
func (st *Store) Save(instance uint8, s *Sim) error {
	regs := s.Registers()
	return st.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName(instance))
		if err != nil {
			return err
		}
		for _, r := range qdc.AllRegisters() {
			v := make([]byte, 2)
			binary.BigEndian.PutUint16(v, regs[r.Index()])
			if err := b.Put([]byte{byte(r)}, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Instances lists the instances that have saved state.
func (st *Store) Instances() ([]uint8, error) {
	var out []uint8
	err := st.DB.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			s := string(name)
			if !strings.HasPrefix(s, bucketPrefix) {
				return nil
			}
			n, err := strconv.Atoi(strings.TrimPrefix(s, bucketPrefix))
			if err != nil {
				return nil
			}
			out = append(out, uint8(n))
			return nil
		})
	})
	return out, err
}
