// Package config persists the last-used plugin context at
// ~/.inventree-plugin-creator/config.yaml so later runs can prefill prompts.
// The file is validated against an embedded JSON schema before use, and every
// key can be overridden from the environment (PLUGIN_CREATOR_AUTHOR_NAME, ...).
package config
