// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.23
//

package gonav

const (
	PI        = 3.1415926535897932 // Pi
	Gravity   = 9.81               // Standard gravity [m/s^2]
	EarthRate = 7.2921158553e-5    // Earth rotation rate [rad/s]
)
