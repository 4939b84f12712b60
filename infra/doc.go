// Package infra contains technical adapters such as the generative
// planning client, metrics exporters and the MQTT notifier. These
// packages should depend only on the interfaces defined in the core
// packages.
package infra
