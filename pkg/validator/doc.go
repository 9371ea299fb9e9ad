// Package validator implements IsValid, the top-level ShEx validation
// definition: for every pair in a shape map, resolve its shape label
// and check the pair's node against the resulting shape expression, failing
// fast on the first pair that does not hold.
package validator
