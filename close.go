package datrie

// Close releases the array and the file mapping held after LoadMapped.
// The trie is empty afterwards and may be rebuilt or reloaded.
func (t *Trie) Close() error {
	if t == nil {
		return nil
	}
	return translateError(t.reset(), KindIO)
}
