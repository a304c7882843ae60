/*
Package pulse builds pulse reports: Markdown summaries of the work done
during a sprint named "Pulse N", gathered from markers left in the
issue tracker.

A marker is a line of the form

	PULSEDESC: text
	PULSEDESC[options]: text

found in an issue's description, comments or configured fields.
Options are separated by commas. An option beginning with a digit is
the pulse the marker belongs to, such as 12 for the sprint "Pulse 12".
The option CONFIDENTIAL marks the item private; private items are left
out of reports unless explicitly requested. Any other option is a tag.
For example:

	PULSEDESC[12,kernel,CONFIDENTIAL]: Prepared the *kernel* snap for the partner

Markers in descriptions and fields must name their pulse.
Markers in comments without a pulse belong to the sprint during which
the comment was written.

Marker text is written in Jira markup and converted to Markdown.
*/
package pulse
