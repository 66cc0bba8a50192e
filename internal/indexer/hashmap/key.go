package hashmap

const keyBase = 27

// keyValue maps one character to its digit: '0'..'9' are 1..10, letters are
// 11..36 regardless of case, anything else is 0.
func keyValue(c byte) uint64 {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c-'0') + 1
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 11
	case c >= 'A' && c <= 'Z':
		return uint64(c-'A') + 11
	default:
		return 0
	}
}

// keyToInt reads key as a base-27 numeral, most significant character first.
// Overflow wraps; collisions are resolved by probing.
func keyToInt(key string) uint64 {
	var n uint64
	for i := 0; i < len(key); i++ {
		n = n*keyBase + keyValue(key[i])
	}
	return n
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := 3; d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

func nextPrime(n int) int {
	if n <= 2 {
		return 2
	}
	if n%2 == 0 {
		n++
	}
	for !isPrime(n) {
		n += 2
	}
	return n
}
