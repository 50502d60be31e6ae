// Package reporter provides core.Reporter implementations that brief a
// participant on what was said since it last spoke.
//
//   - BulletPoint: zero-dependency, renders one "- Sender: Content" line per message
//   - Model: asks a language model for a short second-person briefing
//   - Summarizer: asks a language model for a neutral summary of the exchange
package reporter
