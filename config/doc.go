// Package config loads the runtime configuration of the agentmc CLI.
//
// Process settings (provider credentials, model names, logging) come from
// the environment, optionally seeded from a .env file. The cast and setting
// of a conversation come from a YAML scene file:
//
//	scene: A stormy night at the harbour.
//	language: English
//	participants:
//	  - name: Ava
//	    public: Harbour master, tired and sharp.
//	    private: You know the ship will not come back.
//	    color: cyan
//	  - name: Player
//	    public: A stranger asking questions.
//	    human: true
//
// Every non-human participant gets a system prompt rendered from the scene.
package config
