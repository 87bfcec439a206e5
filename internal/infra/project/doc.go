// Package project locates a devloop project and names the files inside it.
package project
