// Package confloader loads configuration with koanf.
//
// Sources, lowest priority first:
//
//  1. Defaults already present in the target struct
//  2. YAML file
//  3. Environment variables (DEVLOOP_<SECTION>_<KEY>)
//  4. Explicit maps, typically built from command-line flags
//
// Keys are dotted paths ("server.poll_interval"). Durations may be given
// as strings such as "300ms".
package confloader
