package orm

import (
	"github.com/iov-one/timelock"
)

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr timelock.Iterator) ([]timelock.Model, error) {
	defer itr.Close()

	var res []timelock.Model
	for itr.Valid() {
		res = append(res, timelock.Pair(itr.Key(), itr.Value()))
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// queryPrefix returns all models stored under keys starting with given
// prefix.
func queryPrefix(db timelock.ReadOnlyKVStore, prefix []byte) ([]timelock.Model, error) {
	itr, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// prefixRange turns a prefix into a (start, end) range. The end can be used
// with iterators.
// Nil is interpreted as "no limit"
func prefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	start := append([]byte(nil), prefix...)

	// Copy the prefix and update last byte. Overflowing bytes are
	// dropped.
	end := append([]byte(nil), prefix...)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	} else {
		end = end[:l+1]
	}
	return start, end
}
