// Package selector provides next-speaker selectors for the Master of
// Ceremony.
//
// Three implementations are available:
//   - Random picks uniformly among the candidates.
//   - Sequential picks the first candidate. Because the last speaker is
//     never a candidate, this yields a round robin over registration order
//     for two participants and a stable rotation for more.
//   - Model asks a language model, constraining it through a tool whose
//     single argument is an enum of the candidate names.
//
// Selectors are untrusted: the orchestrator validates every answer and
// falls back to a random choice, so implementations may return any string.
package selector
