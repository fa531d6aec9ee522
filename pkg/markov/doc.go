/*
Package markov provides a fixed-order, character-level Markov language model.

A Model learns, from a training text, how often each character follows every
window of WindowLength preceding characters, and uses those frequencies to
generate new text one character at a time. Characters are Unicode code points;
no other tokenization is performed.

	m, err := markov.New(3, markov.WithSeed(markov.DefaultSeed))
	if err != nil {
		return err
	}
	m.Train(corpus)
	text, err := m.Generate("The", 200)

Training is cumulative: every call to Train adds to the counts learned by the
previous calls. Generation stops early when it reaches a window that never
appeared in the training text; there is no smoothing or back-off.
*/
package markov
