// Command sconinspect loads Spriter SCON documents and reports what they
// contain: entities, animations, sampled poses, and playback script results.
package main

func main() {
	Execute()
}
