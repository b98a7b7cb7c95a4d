package authtoken

var WithClock = withClock
