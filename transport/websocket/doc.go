// Package websocket is the connection-facing layer of the race engine.
//
// The Hub owns one Client per websocket connection and delivers outbound
// notifications; the Coordinator translates inbound commands into room
// registry operations and decides who gets notified. Both directions use
// closed, tagged message types (Command and Notification), so every handler
// switch is exhaustive and there is no name-keyed dynamic dispatch.
//
// Each client's identity is resolved once at upgrade time and carried on the
// connection; the coordinator never maintains its own connection-to-identity
// map.
package websocket
