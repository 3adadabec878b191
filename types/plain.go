package types

// Plain lists the types StorageInto may decode into. Every bit pattern of the
// right size is a valid value of each of them, so a raw byte copy can never
// produce an invalid value.
//
// Integers and floats are reinterpreted in host byte order. Callers that need
// a portable encoding should decode into a byte array and convert explicitly.
//
// Types with invalid bit patterns (bool, pointers, strings, slices, maps,
// interfaces, structs holding any of those) are deliberately absent. Adding a
// type here is a promise that any byte sequence of its size is a valid value.
//
// A constraint cannot range over every array length, so the byte arrays are a
// closed list of the sizes used for ids, hashes, keys and signatures. Decode
// other lengths with Storage or ReadStorage, or add the size to this list.
type Plain interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 |
		~[1]byte | ~[2]byte | ~[3]byte | ~[4]byte | ~[5]byte | ~[6]byte | ~[7]byte | ~[8]byte |
		~[10]byte | ~[12]byte | ~[16]byte | ~[20]byte | ~[24]byte | ~[32]byte | ~[33]byte |
		~[48]byte | ~[64]byte | ~[65]byte | ~[96]byte | ~[128]byte | ~[256]byte
}
