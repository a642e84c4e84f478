// Package engine is the configuration validation orchestrator. Compile
// prepares a schema.Schema once (regular expressions, visibility conditions);
// the resulting Compiled value resolves visibility in declaration order,
// deduplicates definitions that share a key (the first visible one wins),
// and runs the field validator on each visible key. Evaluation is pure and
// never fails; malformed schemas are rejected by Compile.
package engine
