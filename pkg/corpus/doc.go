/*
Package corpus supplies training text to a markov.Model.

Text can come from files, from standard input, or from a SQLite-backed Store
of named documents. All sources can optionally be Unicode-normalized so that
visually identical characters are counted as the same code point.
*/
package corpus
