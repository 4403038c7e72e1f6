package ldb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"testing"

	"github.com/kaspanet/ghostdagd/infrastructure/db/database"
)

// blueScoreKey encodes a blue score big-endian so that leveldb's byte order
// matches numeric order, the way stores index blocks by score
func blueScoreKey(bucket *database.Bucket, blueScore uint64) *database.Key {
	suffix := make([]byte, 8)
	binary.BigEndian.PutUint64(suffix, blueScore)
	return bucket.Key(suffix)
}

func expectCursorAt(t *testing.T, testName string, cursor database.Cursor, expectedKey *database.Key,
	expectedValue []byte) {

	key, err := cursor.Key()
	if err != nil {
		t.Fatalf("%s: Key: %s", testName, err)
	}
	if !bytes.Equal(key.Bytes(), expectedKey.Bytes()) {
		t.Fatalf("%s: expected the cursor at %s, got %s", testName, expectedKey, key)
	}
	value, err := cursor.Value()
	if err != nil {
		t.Fatalf("%s: Value: %s", testName, err)
	}
	if !bytes.Equal(value, expectedValue) {
		t.Fatalf("%s: expected value %x at %s, got %x", testName, expectedValue, key, value)
	}
}

func TestCursorWalksInKeyOrder(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestCursorWalksInKeyOrder")
	defer teardownFunc()

	bucket := database.MakeBucket([]byte("blue-scores"))
	// Written out of order. Big-endian keys come back in numeric order
	blueScores := []uint64{256, 3, 1, 70000, 2}
	for _, blueScore := range blueScores {
		err := ldb.Put(blueScoreKey(bucket, blueScore), []byte(fmt.Sprintf("block%d", blueScore)))
		if err != nil {
			t.Fatalf("Put: %s", err)
		}
	}

	cursor, err := ldb.Cursor(bucket)
	if err != nil {
		t.Fatalf("Cursor: %s", err)
	}
	defer cursor.Close()

	expectedOrder := []uint64{1, 2, 3, 256, 70000}
	i := 0
	for ok := cursor.First(); ok; ok = cursor.Next() {
		if i >= len(expectedOrder) {
			t.Fatalf("the cursor returned more than %d entries", len(expectedOrder))
		}
		expectCursorAt(t, "TestCursorWalksInKeyOrder", cursor, blueScoreKey(bucket, expectedOrder[i]),
			[]byte(fmt.Sprintf("block%d", expectedOrder[i])))
		i++
	}
	if i != len(expectedOrder) {
		t.Fatalf("expected %d entries, got %d", len(expectedOrder), i)
	}

	_, err = cursor.Key()
	if !database.IsNotFoundError(err) {
		t.Fatalf("expected ErrNotFound from Key on an exhausted cursor, got %v", err)
	}
	_, err = cursor.Value()
	if !database.IsNotFoundError(err) {
		t.Fatalf("expected ErrNotFound from Value on an exhausted cursor, got %v", err)
	}
}

func TestCursorSeek(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestCursorSeek")
	defer teardownFunc()

	bucket := database.MakeBucket([]byte("blue-scores"))
	for blueScore := uint64(0); blueScore < 10; blueScore += 2 {
		err := ldb.Put(blueScoreKey(bucket, blueScore), []byte{byte(blueScore)})
		if err != nil {
			t.Fatalf("Put: %s", err)
		}
	}

	cursor, err := ldb.Cursor(bucket)
	if err != nil {
		t.Fatalf("Cursor: %s", err)
	}
	defer cursor.Close()

	err = cursor.Seek(blueScoreKey(bucket, 6))
	if err != nil {
		t.Fatalf("Seek to an existing key: %s", err)
	}
	expectCursorAt(t, "TestCursorSeek", cursor, blueScoreKey(bucket, 6), []byte{6})
	if !cursor.Next() {
		t.Fatalf("expected an entry after 6")
	}
	expectCursorAt(t, "TestCursorSeek", cursor, blueScoreKey(bucket, 8), []byte{8})

	// Seek only succeeds on an exact match
	err = cursor.Seek(blueScoreKey(bucket, 5))
	if !database.IsNotFoundError(err) {
		t.Fatalf("expected ErrNotFound seeking a missing key, got %v", err)
	}
	err = cursor.Seek(database.MakeBucket([]byte("other")).Key([]byte{0}))
	if !database.IsNotFoundError(err) {
		t.Fatalf("expected ErrNotFound seeking outside the bucket, got %v", err)
	}
}

func TestClosedCursor(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestClosedCursor")
	defer teardownFunc()

	bucket := database.MakeBucket([]byte("bucket"))
	err := ldb.Put(bucket.Key([]byte("key")), []byte("value"))
	if err != nil {
		t.Fatalf("Put: %s", err)
	}

	erroringCalls := map[string]func(cursor database.Cursor) error{
		"Seek": func(cursor database.Cursor) error { return cursor.Seek(bucket.Key([]byte("key"))) },
		"Key": func(cursor database.Cursor) error {
			_, err := cursor.Key()
			return err
		},
		"Value": func(cursor database.Cursor) error {
			_, err := cursor.Value()
			return err
		},
		"Close": func(cursor database.Cursor) error { return cursor.Close() },
	}
	for name, call := range erroringCalls {
		cursor, err := ldb.Cursor(bucket)
		if err != nil {
			t.Fatalf("Cursor: %s", err)
		}
		err = cursor.Close()
		if err != nil {
			t.Fatalf("Close: %s", err)
		}
		err = call(cursor)
		if err == nil || !strings.Contains(err.Error(), "closed cursor") {
			t.Fatalf("%s on a closed cursor: expected a closed cursor error, got %v", name, err)
		}
	}

	panickingCalls := map[string]func(cursor database.Cursor){
		"First": func(cursor database.Cursor) { cursor.First() },
		"Next":  func(cursor database.Cursor) { cursor.Next() },
	}
	for name, call := range panickingCalls {
		cursor, err := ldb.Cursor(bucket)
		if err != nil {
			t.Fatalf("Cursor: %s", err)
		}
		err = cursor.Close()
		if err != nil {
			t.Fatalf("Close: %s", err)
		}
		func() {
			defer func() {
				recovered := recover()
				if recovered == nil || !strings.Contains(fmt.Sprint(recovered), "closed cursor") {
					t.Fatalf("%s on a closed cursor: expected a closed cursor panic, got %v", name, recovered)
				}
			}()
			call(cursor)
		}()
	}
}

func TestCursorStaysInsideBucket(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestCursorStaysInsideBucket")
	defer teardownFunc()

	ghostdag := database.MakeBucket([]byte("ghostdag"))
	reachability := database.MakeBucket([]byte("reachability"))
	nested := ghostdag.Bucket([]byte("nested"))
	for i := 0; i < 5; i++ {
		for _, bucket := range []*database.Bucket{ghostdag, reachability, nested} {
			err := ldb.Put(bucket.Key([]byte{byte(i)}), []byte{byte(i)})
			if err != nil {
				t.Fatalf("TestCursorStaysInsideBucket: Put unexpectedly failed: %s", err)
			}
		}
	}

	cursor, err := ldb.Cursor(reachability)
	if err != nil {
		t.Fatalf("TestCursorStaysInsideBucket: Cursor unexpectedly failed: %s", err)
	}
	defer cursor.Close()

	count := 0
	for ok := cursor.First(); ok; ok = cursor.Next() {
		key, err := cursor.Key()
		if err != nil {
			t.Fatalf("TestCursorStaysInsideBucket: Key unexpectedly failed: %s", err)
		}
		if !bytes.Equal(key.Bucket().Path(), reachability.Path()) {
			t.Fatalf("TestCursorStaysInsideBucket: got a key from bucket %s", key.Bucket().Path())
		}
		if len(key.Suffix()) != 1 || key.Suffix()[0] != byte(count) {
			t.Fatalf("TestCursorStaysInsideBucket: unexpected suffix %x at position %d", key.Suffix(), count)
		}
		count++
	}
	if count != 5 {
		t.Fatalf("TestCursorStaysInsideBucket: expected 5 entries, got %d", count)
	}
}
