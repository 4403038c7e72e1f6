package model

// DBBucket is a key prefix. Buckets nest: a child bucket's path is its
// parent's path followed by the child's bytes and a separator.
type DBBucket interface {
	Bucket(bucketBytes []byte) DBBucket
	Key(suffix []byte) DBKey
	Path() []byte
}

// DBKey is a suffix inside a bucket
type DBKey interface {
	Bytes() []byte
	Bucket() DBBucket
	Suffix() []byte
}

// DBCursor walks the entries of a single bucket in key order. Keys and
// values it returns are only valid until the next move.
type DBCursor interface {
	// Next and First panic when called on a closed cursor
	Next() bool
	First() bool

	// Seek positions the cursor on key, or returns ErrNotFound
	Seek(key DBKey) error

	Key() (DBKey, error)
	Value() ([]byte, error)
	Close() error
}

// DBReader is the read side of the consensus stores. Get returns
// ErrNotFound for a missing key.
type DBReader interface {
	Get(key DBKey) ([]byte, error)
	Has(key DBKey) (bool, error)
	Cursor(bucket DBBucket) (DBCursor, error)
}

// DBWriter adds writes to DBReader. Deleting a missing key is not an error.
type DBWriter interface {
	DBReader
	Put(key DBKey, value []byte) error
	Delete(key DBKey) error
}

// DBTransaction is a DBWriter whose writes become visible together on
// Commit. RollbackUnlessClosed is safe to defer after Commit.
type DBTransaction interface {
	DBWriter
	Commit() error
	Rollback() error
	RollbackUnlessClosed() error
}

// DBManager is the database handle every store reads through. Staging area
// commits write through a transaction opened with Begin.
type DBManager interface {
	DBWriter
	Begin() (DBTransaction, error)
}
