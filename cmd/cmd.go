// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// playerCommand handles Pandora (pianobar) operations
func playerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "player",
		Aliases: []string{"p"},
		Usage:   "Pandora player controls",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show current player status",
				Flags:  []cli.Flag{configFlag(), &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.PlayerStatus,
			},
			{
				Name:   "start",
				Usage:  "Launch the pianobar process on the hub",
				Flags:  []cli.Flag{configFlag()},
				Action: r.PlayerControl("start"),
			},
			{
				Name:   "stop",
				Usage:  "Shut down the pianobar process",
				Flags:  []cli.Flag{configFlag()},
				Action: r.PlayerControl("stop"),
			},
			{
				Name:   "play",
				Usage:  "Resume playback",
				Flags:  []cli.Flag{configFlag()},
				Action: r.PlayerControl("play"),
			},
			{
				Name:   "pause",
				Usage:  "Pause playback",
				Flags:  []cli.Flag{configFlag()},
				Action: r.PlayerControl("pause"),
			},
			{
				Name:   "next",
				Usage:  "Skip to the next song",
				Flags:  []cli.Flag{configFlag()},
				Action: r.PlayerControl("next"),
			},
			{
				Name:   "love",
				Usage:  "Love the current song",
				Flags:  []cli.Flag{configFlag()},
				Action: r.PlayerControl("love"),
			},
			{
				Name:  "stations",
				Usage: "List available stations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.PlayerStations,
			},
			{
				Name:  "station",
				Usage: "Switch to a station by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.PlayerSelectStation,
			},
		},
	}
}

// jukeboxCommand handles the hub's on-demand player
func jukeboxCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "jukebox",
		Aliases: []string{"j"},
		Usage:   "Jukebox (YouTube/library) controls",
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "Resume jukebox playback",
				Flags:  []cli.Flag{configFlag()},
				Action: r.JukeboxControl("play"),
			},
			{
				Name:   "pause",
				Usage:  "Pause jukebox playback",
				Flags:  []cli.Flag{configFlag()},
				Action: r.JukeboxControl("pause"),
			},
			{
				Name:   "next",
				Usage:  "Skip to the next queued track",
				Flags:  []cli.Flag{configFlag()},
				Action: r.JukeboxControl("next"),
			},
			{
				Name:   "stop",
				Usage:  "Stop playback and clear the transport",
				Flags:  []cli.Flag{configFlag()},
				Action: r.JukeboxControl("stop"),
			},
			{
				Name:  "seek",
				Usage: "Seek to a position (seconds) in the current track",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{Name: "position", Aliases: []string{"p"}, Usage: "Position in seconds", Required: true},
				},
				Action: r.JukeboxSeek,
			},
			{
				Name:  "youtube",
				Usage: "Queue and play a YouTube URL",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.JukeboxYouTube,
			},
			{
				Name:  "local",
				Usage: "Queue and play a library track by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.JukeboxLocal,
			},
			{
				Name:  "library",
				Usage: "List the hub's saved track library",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Output format: text, csv, markdown, json", Value: "text"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write to file instead of stdout"},
				},
				Action: r.JukeboxLibrary,
			},
		},
	}
}

// syncCommand prints a one-shot authoritative snapshot from the hub
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Fetch and print the hub's current sync-state",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
		},
		Action: r.SyncState,
	}
}

// cacheCommand inspects the local snapshot cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the local snapshot cache",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the cached snapshot and version tag",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheShow,
			},
			{
				Name:   "clear",
				Usage:  "Remove the cached snapshot",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheClear,
			},
		},
	}
}

// apiCommand makes raw requests against the hub, for debugging
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Raw hub API requests",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "GET a hub endpoint",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "POST JSON to a hub endpoint",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "JSON request body"},
				},
				Action: r.APIPost,
			},
		},
	}
}

// watchCommand launches the live dashboard
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "watch",
		Aliases: []string{"w"},
		Usage:   "Live now-playing dashboard",
		Flags:   []cli.Flag{configFlag()},
		Action:  r.Watch,
	}
}

// setupCommand initializes configuration and the cache database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the snapshot cache",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}
