package emulator

// demoHighCoords and demoLowCoords are the scripted per-step spike/drought
// coordinates from the original emulator's updateField, translated
// verbatim from its demoHighCoords/demoLowCoords tables. Each entry is
// one model step's list of [lon, lat] points (degrees) to bump to an
// extreme-wind spike or drop to a wind-drought point.
var demoHighCoords = [][][2]float64{
	{{0, 41.5325}},
	{{0, 41.5325}, {90, 41.5325}},
	{{0, 41.5325}, {90, 41.5325}, {95.625, 35.9951}},
	{{90, 41.5325}, {95.625, 35.9951}, {180, 41.5325}, {191.25, 41.5325}},
	{{180, 41.5325}, {191.25, 41.5325}, {157.5, 2.7689}, {225, 41.5325}, {270, 41.5325}},
	{{191.25, 41.5325}, {225, 41.5325}, {270, 41.5325}, {95.625, 35.9951}},
	{{225, 41.5325}, {270, 41.5325}, {95.625, 35.9951}},
	{{270, 41.5325}, {95.625, 35.9951}},
	{{95.625, 35.9951}},
	{},
}

var demoLowCoords = [][][2]float64{
	{{270, -19.3822}},
	{{270, -19.3822}, {225, -24.9199}},
	{{270, -19.3822}, {225, -24.9199}, {180, -24.9199}},
	{{225, -24.9199}, {180, -24.9199}, {135, -24.9199}},
	{{180, -24.9199}, {135, -24.9199}, {180, -41.5325}},
	{{135, -24.9199}, {180, -41.5325}},
	{{135, -24.9199}, {180, -41.5325}, {202.5, -47.0696}},
	{{180, -41.5325}, {202.5, -47.0696}},
	{{202.5, -47.0696}},
	{},
}
