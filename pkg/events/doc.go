/*
Package events provides in-process pub/sub for plan engine events.

The Broker fans out events (regeneration, reminder emissions, action
transitions, mode changes) to any number of subscribers over buffered
channels. Publishing never blocks on a slow subscriber: a subscriber
whose buffer is full simply misses the event. The reminder sink used
by notification surfaces is an ordinary subscription.
*/
package events
