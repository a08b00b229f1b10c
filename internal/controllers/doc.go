// Package controllers implements robot controllers.
//
// A controller reads the robot body state [x, y, vx, vy] once per tick and
// returns the acceleration command [ax, ay] applied on the next tick.
// Controllers that need randomness create their generators during Init,
// never while the space is stepping.
package controllers
