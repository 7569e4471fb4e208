package operation

import (
	"image"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Chain is an ordered, non-empty sequence of operations applied left to right.
type Chain []Operation

// Codes returns the operation codes in application order.
func (c Chain) Codes() []string {
	codes := make([]string, len(c))
	for i, op := range c {
		codes[i] = op.Code()
	}

	return codes
}

// String joins the codes the same way a combination is written.
func (c Chain) String() string {
	return strings.Join(c.Codes(), ",")
}

// Apply runs every operation in order, feeding each result to the next one.
func (c Chain) Apply(img image.Image) (image.Image, error) {
	for _, op := range c {
		out, err := op.Process(img)
		if err != nil {
			return nil, errors.Errorf("failed to apply %s: %w", op.Code(), err)
		}
		img = out
	}

	return img, nil
}

// ParseChain resolves a comma-separated combination such as "noise_0.01,blur_1.0".
func ParseChain(r *Registry, combination string) (Chain, error) {
	tokens := strings.Split(combination, ",")

	chain := make(Chain, 0, len(tokens))
	for _, token := range tokens {
		op, err := r.Resolve(strings.TrimSpace(token))
		if err != nil {
			return nil, errors.Errorf("combination %q: %w", combination, err)
		}
		chain = append(chain, op)
	}

	return chain, nil
}

// ParseChains parses every requested combination before any work starts.
// A single unresolvable token fails the whole set. Combinations that resolve
// to the same code sequence are kept once.
func ParseChains(r *Registry, combinations []string) ([]Chain, error) {
	seen := make(map[string]struct{}, len(combinations))
	chains := make([]Chain, 0, len(combinations))

	for _, combination := range combinations {
		chain, err := ParseChain(r, combination)
		if err != nil {
			return nil, err
		}

		key := chain.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		chains = append(chains, chain)
	}

	return chains, nil
}
