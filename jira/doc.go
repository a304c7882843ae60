/*
Package jira is a small client for the parts of the Jira REST API
needed to build pulse reports: issue search, single issues and comments
from the platform API, and sprints from the agile API.

Issue and comment timestamps use Jira's own layout; sprint dates are RFC 3339.
Fields which Jira omits, such as timestamps when a search requests only
some fields, are left as zero values.

https://developer.atlassian.com/cloud/jira/platform/rest/v2/
https://developer.atlassian.com/cloud/jira/software/rest/api-group-board/
*/
package jira
