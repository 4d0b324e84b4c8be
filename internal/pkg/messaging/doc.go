// Package messaging is a broker-agnostic publish/consume layer.
//
// Drivers: NSQ, NATS, Kafka (segmentio/kafka-go), Google Pub/Sub v2 and an
// in-process memory broker. Handlers receive a Message that can be acked or
// nacked once; with WithAutoAck the consumer acks on a nil handler error and
// nacks otherwise.
package messaging
